// Package evaluate scores a predicted detection set against ground truth
// using bipartite geometric matching over bounding-box IoU.
//
// Evaluate builds the |predicted| × |ground truth| IoU matrix, then matches
// greedily: predictions are visited in their given order, each taking the
// unmatched ground-truth element with the highest IoU, counting a true
// positive when that IoU meets the threshold. Matching is one-to-one with no
// re-matching and no global-optimum assignment — a deliberate simplification
// versus an optimal solver (Hungarian); replacing it would change reported
// metrics, so it stays greedy. Ties break by first-seen order.
//
// Predictions below the confidence threshold are excluded from matching but
// still count as false positives (FP = |predicted| − TP); unmatched ground
// truth counts as false negatives. Mean and median IoU are computed over the
// entire matrix, matched or not — an auxiliary quality signal, not a
// matched-pair statistic.
//
// Both Evaluate and EvaluateBatch are stateless pure functions: they never
// mutate their inputs and may be called concurrently on disjoint data. The
// only transient allocation of note is the O(n·m) matrix per call; bound the
// set sizes in the caller if they can be unbounded.
package evaluate
