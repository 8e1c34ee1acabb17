package publishers

import (
	"context"

	"github.com/citybeat-nyc/headline-harvester/internal/logger"
)

// Event is the message fanned out for every newly stored headline.
type Event struct {
	SourceID  string   `json:"source_id"`
	Headline  string   `json:"headline"`
	Date      string   `json:"date,omitempty"`
	Link      string   `json:"link,omitempty"`
	Sentiment float64  `json:"sentiment"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Publisher delivers events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is re-exported so publisher configs and builders share the
// harvester's logging contract.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
