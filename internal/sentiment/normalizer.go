// Package sentiment collapses the three-class probability output of the
// sentiment model into a single signed scalar.
package sentiment

import "github.com/citybeat-nyc/headline-harvester/internal/domain"

const (
	labelNegative = "negative"
	labelNeutral  = "neutral"
	labelPositive = "positive"
)

// Normalize maps per-class probabilities to one scalar, nominally in [-1, 1].
//
// The dominant class keeps its probability as magnitude: positive stays
// positive, negative is negated. A dominant neutral is smoothed toward the
// runner-up side instead of collapsing to zero: sign = (-1 + s) when the
// negative class outweighs the positive one, (1 - s) otherwise, and the
// result is s * sign. The asymmetry is inherited behavior and load-bearing
// for downstream consumers; pathological inputs (probabilities not summing
// to 1) are not re-normalized.
//
// Ties between classes resolve in the fixed order negative, neutral,
// positive.
func Normalize(scores domain.SentimentScores) float64 {
	dominant := labelNegative
	s := scores.Negative
	if scores.Neutral > s {
		dominant, s = labelNeutral, scores.Neutral
	}
	if scores.Positive > s {
		dominant, s = labelPositive, scores.Positive
	}

	switch dominant {
	case labelNegative:
		return -s
	case labelNeutral:
		sign := 1 - s
		if scores.Negative > scores.Positive {
			sign = -1 + s
		}
		return s * sign
	default:
		return s
	}
}
