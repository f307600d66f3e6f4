package service

import (
	"context"

	"cotizador_backend/internal/chat/agent"
	"cotizador_backend/internal/chat/session"
	"cotizador_backend/internal/events"
	"cotizador_backend/internal/quote"
	"cotizador_backend/platform/logger"
)

// dispatcher executes the model's tool calls against one session. It mutates
// the session's quote in place; the service saves the session after the
// conversation turn completes.
type dispatcher struct {
	svc  *Service
	sess *session.Session
	log  *logger.Logger
}

// SearchProducts runs a catalog search and hands the matches back to the
// model verbatim.
func (d *dispatcher) SearchProducts(ctx context.Context, args agent.SearchProductsArgs) (interface{}, error) {
	results := d.svc.catalog.Search(ctx, args.Query, args.Category)
	return results, nil
}

// UpdateQuote replaces the draft quote with the model's complete item list.
// Codes that cannot be resolved against the catalog are dropped by the
// resolver; the quote reflects only real products.
func (d *dispatcher) UpdateQuote(ctx context.Context, args agent.UpdateQuoteArgs) (interface{}, error) {
	items := d.svc.resolver.ResolveItems(ctx, toRequested(args.Items))
	d.sess.Quote.SetItems(items)

	d.svc.bus.Publish(ctx, events.QuoteUpdated{
		BaseEvent: events.NewBaseEvent(),
		SessionID: d.sess.ID,
		ItemCount: len(d.sess.Quote.Items),
		Total:     d.sess.Quote.Total,
	})
	return map[string]string{"status": "success"}, nil
}

// CreateOrder finalizes the quote and submits it to the order backend. Every
// failure shape is reported back to the model as a structured status so it
// can explain the problem to the customer.
func (d *dispatcher) CreateOrder(ctx context.Context, args agent.CreateOrderArgs) (interface{}, error) {
	if !args.Confirmed {
		return map[string]string{"status": "error", "message": "User did not confirm"}, nil
	}

	items := d.svc.resolver.ResolveItems(ctx, toRequested(args.Items))
	if len(items) == 0 {
		return map[string]string{"status": "error", "message": "No valid items found"}, nil
	}

	d.sess.Quote.SetItems(items)
	d.sess.Quote.Status = quote.StatusConfirmed

	result, err := d.svc.orders.CreateOrder(ctx, items)
	if err != nil {
		d.log.Error("order submission failed", "error", err.Error())
		return map[string]string{"status": "error", "message": err.Error()}, nil
	}

	d.sess.Quote.Status = quote.StatusSubmitted
	d.sess.Quote.OrderID = result.OrderID

	d.svc.bus.Publish(ctx, events.OrderCreated{
		BaseEvent: events.NewBaseEvent(),
		SessionID: d.sess.ID,
		OrderID:   result.OrderID,
		ItemCount: len(items),
		Total:     d.sess.Quote.Total,
	})
	return map[string]string{"status": "success", "orderId": result.OrderID}, nil
}

func toRequested(args []agent.QuoteItemArg) []quote.RequestedItem {
	requested := make([]quote.RequestedItem, 0, len(args))
	for _, item := range args {
		requested = append(requested, quote.RequestedItem{Code: item.Code, Quantity: item.Quantity})
	}
	return requested
}

var _ agent.Dispatcher = (*dispatcher)(nil)
