package sentiment

import (
	"math"
	"testing"

	"github.com/citybeat-nyc/headline-harvester/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		scores domain.SentimentScores
		want   float64
	}{
		{
			name:   "dominant positive keeps its probability",
			scores: domain.SentimentScores{Negative: 0.1, Neutral: 0.2, Positive: 0.7},
			want:   0.7,
		},
		{
			name:   "dominant negative is negated",
			scores: domain.SentimentScores{Negative: 0.6, Neutral: 0.1, Positive: 0.3},
			want:   -0.6,
		},
		{
			name:   "neutral leaning negative",
			scores: domain.SentimentScores{Negative: 0.5, Neutral: 0.6, Positive: 0.1},
			// sign = -1 + 0.6, result = 0.6 * -0.4
			want: -0.24,
		},
		{
			name:   "neutral leaning positive",
			scores: domain.SentimentScores{Negative: 0.1, Neutral: 0.6, Positive: 0.3},
			// sign = 1 - 0.6, result = 0.6 * 0.4
			want: 0.24,
		},
		{
			name:   "neutral with equal wings leans positive",
			scores: domain.SentimentScores{Negative: 0.2, Neutral: 0.6, Positive: 0.2},
			want:   0.24,
		},
		{
			name:   "all-class tie resolves to negative",
			scores: domain.SentimentScores{Negative: 0.5, Neutral: 0.5, Positive: 0.5},
			want:   -0.5,
		},
		{
			name:   "neutral-positive tie resolves to neutral branch",
			scores: domain.SentimentScores{Negative: 0.1, Neutral: 0.45, Positive: 0.45},
			// sign = 1 - 0.45, result = 0.45 * 0.55
			want: 0.2475,
		},
		{
			name:   "zero scores",
			scores: domain.SentimentScores{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.scores)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Normalize(%+v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}
