package evaluate

import (
	"fmt"
	"sort"

	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

// Options configures evaluation thresholds.
type Options struct {
	// IoUThreshold is the minimum IoU for a prediction/ground-truth pair to
	// count as a true positive. Default 0.5.
	IoUThreshold float64 `json:"iou_threshold"`

	// ConfidenceThreshold excludes predictions scoring below it from
	// matching. Excluded predictions still count as false positives.
	// Default 0.5.
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

// DefaultOptions returns the standard evaluation thresholds.
func DefaultOptions() Options {
	return Options{IoUThreshold: 0.5, ConfidenceThreshold: 0.5}
}

// Metrics reports detection quality for one predicted/ground-truth pair, or
// aggregated over a batch.
//
// Undefined ratios (zero denominators) are reported as 0, never NaN.
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`

	// IoUMean and IoUMedian are computed over every cell of the pairwise IoU
	// matrix, not only matched pairs.
	IoUMean   float64 `json:"iou_mean"`
	IoUMedian float64 `json:"iou_median"`

	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
}

// Evaluate scores predicted against groundTruth. Both sets are read-only;
// ids are never compared, only geometry. Empty sets are not errors: with no
// ground truth every prediction is a false positive, with no predictions
// every ground-truth element is a false negative, and all ratios with a zero
// denominator are 0.
func Evaluate(predicted, groundTruth element.DetectionSet, opts Options) Metrics {
	matrix := iouMatrix(predicted.Elements, groundTruth.Elements)
	tp, fp, fn := matchGreedy(predicted.Elements, groundTruth.Elements, matrix, opts)

	var m Metrics
	m.TruePositives = tp
	m.FalsePositives = fp
	m.FalseNegatives = fn

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	m.IoUMean, m.IoUMedian = matrixStats(matrix)
	return m
}

// EvaluateBatch scores each predicted/ground-truth pair independently and
// returns the per-metric arithmetic means, with TP/FP/FN summed. Pairs
// correspond by index; mismatched lengths are a caller contract violation
// and fail fast.
func EvaluateBatch(predicted, groundTruth []element.DetectionSet, opts Options) (Metrics, error) {
	if len(predicted) != len(groundTruth) {
		return Metrics{}, fmt.Errorf("evaluate batch: %d predicted sets vs %d ground-truth sets", len(predicted), len(groundTruth))
	}

	var agg Metrics
	if len(predicted) == 0 {
		return agg, nil
	}

	for i := range predicted {
		m := Evaluate(predicted[i], groundTruth[i], opts)
		agg.Precision += m.Precision
		agg.Recall += m.Recall
		agg.F1 += m.F1
		agg.IoUMean += m.IoUMean
		agg.IoUMedian += m.IoUMedian
		agg.TruePositives += m.TruePositives
		agg.FalsePositives += m.FalsePositives
		agg.FalseNegatives += m.FalseNegatives
	}

	n := float64(len(predicted))
	agg.Precision /= n
	agg.Recall /= n
	agg.F1 /= n
	agg.IoUMean /= n
	agg.IoUMedian /= n
	return agg, nil
}

// iouMatrix builds the pairwise IoU matrix, rows indexed by prediction and
// columns by ground truth.
func iouMatrix(pred, gt []element.Element) [][]float64 {
	matrix := make([][]float64, len(pred))
	for i := range pred {
		matrix[i] = make([]float64, len(gt))
		for j := range gt {
			matrix[i][j] = geometry.IoU(pred[i].Box, gt[j].Box)
		}
	}
	return matrix
}

// matchGreedy performs one-to-one greedy matching. Predictions are visited
// in their given order (confidence filtering happens here, not by sorting);
// each claims the unmatched ground-truth column with the highest IoU and
// counts a true positive when that IoU meets the threshold.
//
// False positives are all predictions that did not match, including those
// skipped for low confidence. False negatives are all unmatched ground-truth
// elements.
func matchGreedy(pred, gt []element.Element, matrix [][]float64, opts Options) (tp, fp, fn int) {
	if len(pred) == 0 || len(gt) == 0 {
		return 0, len(pred), len(gt)
	}

	matched := make([]bool, len(gt))
	matchedCount := 0

	for i := range pred {
		if pred[i].Confidence < opts.ConfidenceThreshold {
			continue
		}

		bestIoU := 0.0
		bestJ := -1
		for j := range gt {
			if matched[j] {
				continue
			}
			if matrix[i][j] > bestIoU {
				bestIoU = matrix[i][j]
				bestJ = j
			}
		}

		if bestJ >= 0 && bestIoU >= opts.IoUThreshold {
			tp++
			matched[bestJ] = true
			matchedCount++
		}
	}

	return tp, len(pred) - tp, len(gt) - matchedCount
}

// matrixStats returns the mean and median over every cell of the matrix,
// or zeros for an empty matrix.
func matrixStats(matrix [][]float64) (mean, median float64) {
	var cells []float64
	var sum float64
	for _, row := range matrix {
		for _, v := range row {
			cells = append(cells, v)
			sum += v
		}
	}
	if len(cells) == 0 {
		return 0, 0
	}

	mean = sum / float64(len(cells))

	sort.Float64s(cells)
	mid := len(cells) / 2
	if len(cells)%2 == 1 {
		median = cells[mid]
	} else {
		median = (cells[mid-1] + cells[mid]) / 2
	}
	return mean, median
}
