package refine

import (
	"sort"

	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

// Options configures the refinement pipeline. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// MinConfidence drops elements scoring below it. Default 0.3.
	MinConfidence float64 `json:"min_confidence"`

	// MinElementSize drops elements narrower or shorter than this many
	// pixels. Default 10.
	MinElementSize float64 `json:"min_element_size"`

	// MergeIoUThreshold is the pairwise IoU at or above which two elements
	// join the same merge cluster. Default 0.5.
	MergeIoUThreshold float64 `json:"merge_iou_threshold"`

	// DedupIoUThreshold is the pairwise IoU above which the final pass
	// discards the later of two surviving elements. Always kept at or above
	// MergeIoUThreshold. Default 0.9.
	DedupIoUThreshold float64 `json:"dedup_iou_threshold"`
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MinConfidence:     0.3,
		MinElementSize:    10,
		MergeIoUThreshold: 0.5,
		DedupIoUThreshold: 0.9,
	}
}

// BoxRefiner is the optional extension point between merging and dedup. An
// implementation may consult image context to tighten an element's box, for
// example by snapping it to detected edges. Returning the input box
// unchanged is always valid.
type BoxRefiner interface {
	RefineBox(e element.Element) geometry.Box
}

// Refine runs the full pipeline without a box refinement hook.
func Refine(set element.DetectionSet, opts Options) element.DetectionSet {
	return RefineWith(set, opts, nil)
}

// RefineWith runs the full pipeline, invoking refiner between the merge and
// dedup stages when it is non-nil. The input set is not mutated; elements
// are copied into the result.
func RefineWith(set element.DetectionSet, opts Options, refiner BoxRefiner) element.DetectionSet {
	els := filterByConfidence(set.Elements, opts.MinConfidence)
	els = filterBySize(els, opts.MinElementSize)
	els = mergeOverlapping(els, opts.MergeIoUThreshold)
	els = refineBoxes(els, refiner)
	els = removeDuplicates(els, opts.DedupIoUThreshold)

	return element.DetectionSet{
		SourceImage: set.SourceImage,
		Elements:    els,
		Metadata:    set.Metadata.Clone(),
	}
}

func filterByConfidence(els []element.Element, minConfidence float64) []element.Element {
	out := make([]element.Element, 0, len(els))
	for _, e := range els {
		if e.Confidence >= minConfidence {
			out = append(out, e)
		}
	}
	return out
}

func filterBySize(els []element.Element, minSize float64) []element.Element {
	out := make([]element.Element, 0, len(els))
	for _, e := range els {
		if e.Box.Width >= minSize && e.Box.Height >= minSize {
			out = append(out, e)
		}
	}
	return out
}

// mergeOverlapping clusters elements whose pairwise IoU meets the threshold
// and collapses each cluster into one element. Seeds are scanned in
// descending confidence order (stable, so equal confidences keep input
// order); each seed greedily absorbs every later, still-unclaimed element
// within threshold of the seed itself.
func mergeOverlapping(els []element.Element, threshold float64) []element.Element {
	if len(els) == 0 {
		return els
	}

	ordered := make([]element.Element, len(els))
	copy(ordered, els)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	claimed := make([]bool, len(ordered))
	out := make([]element.Element, 0, len(ordered))

	for i, seed := range ordered {
		if claimed[i] {
			continue
		}

		cluster := []element.Element{seed}
		for j := i + 1; j < len(ordered); j++ {
			if claimed[j] {
				continue
			}
			if geometry.IoU(seed.Box, ordered[j].Box) >= threshold {
				cluster = append(cluster, ordered[j])
				claimed[j] = true
			}
		}

		if len(cluster) > 1 {
			out = append(out, mergeCluster(cluster))
		} else {
			out = append(out, seed)
		}
	}

	return out
}

// mergeCluster collapses a cluster into a single element. The cluster is
// already in descending confidence order with the seed first: the merged box
// covers every constituent, the confidence is the seed's (the maximum), the
// category and content are the seed's, and metadata is unioned with the
// highest-confidence constituent winning on key collision.
func mergeCluster(cluster []element.Element) element.Element {
	seed := cluster[0]

	merged := seed
	merged.ID = "merged_" + seed.ID

	box := seed.Box
	meta := element.Metadata{}
	for _, e := range cluster {
		box = geometry.Cover(box, e.Box)
		for k, v := range e.Metadata {
			if _, ok := meta[k]; !ok {
				meta[k] = v
			}
		}
	}
	merged.Box = box
	if len(meta) > 0 {
		merged.Metadata = meta
	} else {
		merged.Metadata = nil
	}

	return merged
}

func refineBoxes(els []element.Element, refiner BoxRefiner) []element.Element {
	if refiner == nil {
		return els
	}
	out := make([]element.Element, len(els))
	for i, e := range els {
		box := refiner.RefineBox(e)
		// A refiner tightens or keeps a box; malformed output is discarded.
		if box.Width < 0 || box.Height < 0 {
			box = e.Box
		}
		e.Box = box
		out[i] = e
	}
	return out
}

// removeDuplicates scans in order and drops any element whose IoU with an
// already-accepted element exceeds the threshold. First seen wins.
func removeDuplicates(els []element.Element, threshold float64) []element.Element {
	out := make([]element.Element, 0, len(els))
	for _, e := range els {
		duplicate := false
		for _, kept := range out {
			if geometry.IoU(e.Box, kept.Box) > threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, e)
		}
	}
	return out
}
