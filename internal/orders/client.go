// Package orders wraps the external order-submission backend (Dux). The
// real system is out of scope; this client mimics its contract, including
// its latency and its rejection of empty orders.
package orders

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"cotizador_backend/internal/quote"
	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/logger"
)

// Result is the order backend's acknowledgement.
type Result struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Creator submits a finalized order.
type Creator interface {
	CreateOrder(ctx context.Context, items []quote.CartItem) (Result, error)
}

// DuxClient is the mock Dux order backend.
type DuxClient struct {
	delay time.Duration
	log   *logger.Logger
}

// NewDuxClient creates the mock order client with the backend's typical
// response latency.
func NewDuxClient(log *logger.Logger) *DuxClient {
	return &DuxClient{delay: 1500 * time.Millisecond, log: log}
}

// NewDuxClientWithDelay creates the mock order client with a custom latency.
func NewDuxClientWithDelay(delay time.Duration, log *logger.Logger) *DuxClient {
	return &DuxClient{delay: delay, log: log}
}

// CreateOrder submits the order. An empty item list is rejected.
func (c *DuxClient) CreateOrder(ctx context.Context, items []quote.CartItem) (Result, error) {
	if len(items) == 0 {
		return Result{}, apperr.Validation("el carrito está vacío")
	}

	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	result := Result{
		OrderID: fmt.Sprintf("DUX-%d", rand.IntN(10000)+1000),
		Status:  "created",
	}
	c.log.Info("order created", "order_id", result.OrderID, "items", len(items))
	return result, nil
}

// Compile-time check that DuxClient implements Creator.
var _ Creator = (*DuxClient)(nil)
