// Package refine collapses noisy, overlapping detector output into one
// authoritative detection set.
//
// Refine applies five stages in a fixed order; later stages assume the
// invariants earlier stages establish:
//
//  1. Confidence filter: drop elements below Options.MinConfidence.
//  2. Size filter: drop elements narrower or shorter than
//     Options.MinElementSize.
//  3. Overlap merge: greedy single-pass clustering seeded in descending
//     confidence order; every cluster collapses to one element.
//  4. Box refinement hook: an optional BoxRefiner may tighten boxes using
//     image context; absent one, this stage is the identity.
//  5. Final dedup: first-seen-wins removal of residual near-duplicates the
//     greedy merge missed.
//
// # Greedy merge
//
// The merge is a single-pass O(n²) approximation, not a transitive-closure
// clustering: two elements each within threshold of a common third but not
// of each other may or may not share a cluster, depending on which seed
// claims them first. Clusters are keyed off the highest-confidence seed, so
// for fixed input the result is deterministic. Do not replace this with an
// exact connected-components or optimal assignment pass: the output set
// would change, and downstream metrics with it.
//
// # Guarantees
//
// After Refine, no two surviving elements have pairwise IoU above
// Options.DedupIoUThreshold, no survivor's confidence is below
// Options.MinConfidence (a merged element inherits the maximum of its
// constituents, which met the bar), and refinement never raises an
// element's confidence above any input value. Refine never fails on
// well-formed input; an empty set refines to an empty set. Dropped elements
// are never resurrected.
package refine
