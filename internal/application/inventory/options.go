package inventory

import (
	"context"
	"time"

	"github.com/legumemart/backend/internal/domain/inventory"
	"github.com/legumemart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Options carries the collaborators shared by the stock pipeline services
type Options struct {
	// MaxRetryAttempts bounds re-runs after an optimistic lock conflict
	MaxRetryAttempts int
	// Location is the business calendar used for document numbers
	Location *time.Location
	// Sequences overrides the transactional counter (e.g. a Redis generator)
	Sequences inventory.SequenceGenerator
	Publisher shared.EventPublisher
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxRetryAttempts < 1 {
		o.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func (o Options) now() time.Time {
	return time.Now().In(o.Location)
}

func (o Options) sequences(repos TransactionalRepositories) inventory.SequenceGenerator {
	if o.Sequences != nil {
		return o.Sequences
	}
	return repos.Sequences()
}

// eventCollector gathers aggregate events during a scope so they can be
// published once the transaction has committed
type eventCollector struct {
	events []shared.DomainEvent
}

func (c *eventCollector) reset() {
	c.events = nil
}

func (c *eventCollector) collect(aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		c.events = append(c.events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
}

// publish sends collected events. Delivery failures are logged by the bus
// and never fail the committed operation.
func (c *eventCollector) publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger) {
	if publisher == nil || len(c.events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, c.events...); err != nil {
		logger.Warn("failed to publish domain events", zap.Error(err), zap.Int("count", len(c.events)))
	}
	c.events = nil
}
