package domain

// Domain contains the records shared by the ingest pipeline, the store and
// the publishers.

// SerializedHeadline is the stored record for one distinct headline. It is
// written once on first sight and never updated.
type SerializedHeadline struct {
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Link        string   `json:"link"`
	Sentiment   float64  `json:"sentiment"`
	Keywords    []string `json:"keywords"`
}

// SentimentScores holds the per-class probabilities reported by the sentiment
// model. The three classes are fixed; the values are not required to sum to 1.
type SentimentScores struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// Classification is the enrichment verdict for one article's combined text.
type Classification struct {
	Related  bool     `json:"related"`
	Keywords []string `json:"keywords"`
}
