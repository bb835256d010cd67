package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

// SimulatedProcessor stands in for real fulfilment: it waits Delay and
// reports the order as processed.
type SimulatedProcessor struct {
	Delay time.Duration
	Log   zerolog.Logger
}

func (p *SimulatedProcessor) Process(ctx context.Context, msg models.NewOrderMessage) error {
	t := time.NewTimer(p.Delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	p.Log.Info().Str("order_id", msg.OrderID).Msgf("Order %s processed", msg.OrderID)
	return nil
}
