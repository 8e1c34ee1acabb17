package publishers

import (
	"context"
	"fmt"
	"strings"
)

// Builder creates a Publisher from its validated config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry resolves publisher types to builders. Configs are validated at
// load time, so resolution here only handles the type dispatch.
type Registry map[string]Builder

// DefaultRegistry knows every publisher type this service can construct.
func DefaultRegistry() Registry {
	return Registry{
		TypeHTTP:  newHTTPPublisher,
		TypeQueue: newQueuePublisher,
	}
}

// PublisherFor builds the publisher for one config entry.
func (r Registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	builder, ok := r[strings.ToLower(strings.TrimSpace(cfg.Type))]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for type %q (publisher %q)", cfg.Type, cfg.ID)
	}
	return builder(ctx, cfg, log)
}

// BuildAll instantiates one publisher per config entry, failing on the first
// entry that cannot be built.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	if len(reg) == 0 || len(cfgs) == 0 {
		return nil, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	log = ensureLogger(log)

	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
