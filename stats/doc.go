// Package stats provides the small numeric toolbox shared by the fate
// pipeline: Shannon entropy, column z-scoring, quantile cutoffs, and the
// Wilcoxon rank-sum test.
//
// Conventions match the references the pipeline was validated against:
//
//	– Entropy uses the natural logarithm and normalizes its input to a
//	  probability vector, like scipy.stats.entropy.
//	– ZScoreColumns uses the population standard deviation (ddof = 0),
//	  like scipy.stats.zscore.
//	– Quantile interpolates linearly between order statistics, like
//	  numpy.percentile's default mode.
//	– RankSum is the large-sample normal approximation with average ranks
//	  for ties and a two-sided p-value, like scipy.stats.ranksums.
//
// RankSumFunc is the pluggable capability type: the class assigner accepts
// any implementation with this signature, so tests can inject a
// deterministic fake.
package stats
