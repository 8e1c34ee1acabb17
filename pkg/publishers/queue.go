package publishers

import (
	"context"
	"fmt"
)

// queueSender abstracts the provider-specific delivery call.
type queueSender interface {
	Send(ctx context.Context, evt Event) error
}

// queuePublisher hands events to one cloud queue provider.
type queuePublisher struct {
	id       string
	provider string
	sender   queueSender
}

func newQueuePublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("publisher %q missing queue configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sender, err := queueSenderFor(ctx, cfg.Queue, log)
	if err != nil {
		return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}

	return &queuePublisher{
		id:       cfg.ID,
		provider: cfg.Queue.Provider,
		sender:   sender,
	}, nil
}

func queueSenderFor(ctx context.Context, qc *QueuePublisherConfig, log Logger) (queueSender, error) {
	switch qc.Provider {
	case QueueProviderAWSSQS:
		return newAWSSQSSender(ctx, qc.AWS, log)
	case QueueProviderAWSSNS:
		return newAWSSNSSender(ctx, qc.SNS, log)
	case QueueProviderGCP:
		return newGCPPubSubSender(ctx, qc.GCP, log)
	case QueueProviderAzure:
		return nil, fmt.Errorf("queue provider %q not implemented", qc.Provider)
	default:
		return nil, fmt.Errorf("queue provider %q is not supported", qc.Provider)
	}
}

func (p *queuePublisher) ID() string   { return p.id }
func (p *queuePublisher) Type() string { return TypeQueue }

func (p *queuePublisher) Publish(ctx context.Context, evt Event) error {
	if err := p.sender.Send(ctx, evt); err != nil {
		return fmt.Errorf("queue provider %s send failed: %w", p.provider, err)
	}
	return nil
}
