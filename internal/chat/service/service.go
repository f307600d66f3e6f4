// Package service implements the conversation use cases: session lifecycle,
// message exchange with the model, and direct quote manipulation.
package service

import (
	"context"

	"cotizador_backend/internal/chat/agent"
	"cotizador_backend/internal/chat/session"
	catalogsvc "cotizador_backend/internal/catalog/service"
	"cotizador_backend/internal/events"
	"cotizador_backend/internal/orders"
	"cotizador_backend/internal/quote"
	"cotizador_backend/platform/ai/gemini"
	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/logger"
)

// Service coordinates sessions, the agent, the catalog and the order backend.
type Service struct {
	store    session.Store
	agent    *agent.Agent
	catalog  *catalogsvc.Service
	resolver *quote.Resolver
	orders   orders.Creator
	bus      events.Bus
	log      *logger.Logger
}

// New creates the chat service.
func New(
	store session.Store,
	ag *agent.Agent,
	catalog *catalogsvc.Service,
	resolver *quote.Resolver,
	orderClient orders.Creator,
	bus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		store:    store,
		agent:    ag,
		catalog:  catalog,
		resolver: resolver,
		orders:   orderClient,
		bus:      bus,
		log:      log,
	}
}

// StartSession opens a new conversation seeded with the welcome message.
func (s *Service) StartSession(ctx context.Context) (*session.Session, error) {
	sess, err := s.store.Create(ctx)
	if err != nil {
		return nil, err
	}
	sess.AppendTurn(session.RoleModel, welcomeMessage)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.log.WithSessionID(sess.ID).Info("session started")
	return sess, nil
}

// Session returns the stored session.
func (s *Service) Session(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// SendMessage runs one conversation turn. Model transport failures do not
// bubble up as HTTP errors; they become a reply in the conversation's own
// voice, so the client renders them like any other assistant message.
func (s *Service) SendMessage(ctx context.Context, sessionID, message string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	log := s.log.WithSessionID(sess.ID)

	history := make([]agent.Turn, 0, len(sess.Turns))
	for _, turn := range sess.Turns {
		history = append(history, agent.Turn{Role: turn.Role, Text: turn.Text})
	}

	disp := &dispatcher{svc: s, sess: sess, log: log}
	result, convErr := s.agent.Converse(ctx, history, message, disp)

	reply := result.Text
	switch {
	case convErr != nil && gemini.IsQuotaError(convErr):
		log.Warn("model quota exhausted", "error", convErr.Error())
		reply = quotaMessage
	case convErr != nil:
		log.Error("conversation turn failed", "error", convErr.Error())
		reply = failureMessage
	case result.NoAnswer:
		reply = noAnswerMessage
	}

	sess.AppendTurn(session.RoleUser, message)
	sess.AppendTurn(session.RoleModel, reply)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Quote returns the session's current quote.
func (s *Service) Quote(ctx context.Context, sessionID string) (quote.Quote, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return quote.Quote{}, err
	}
	return sess.Quote, nil
}

// SetItemQuantity updates one line's quantity directly from the quote panel.
func (s *Service) SetItemQuantity(ctx context.Context, sessionID, code string, quantity int) (quote.Quote, error) {
	if quantity < 1 {
		return quote.Quote{}, apperr.Validation("la cantidad debe ser al menos 1")
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return quote.Quote{}, err
	}
	if !sess.Quote.SetQuantity(code, quantity) {
		return quote.Quote{}, apperr.NotFound("el producto no está en la cotización")
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return quote.Quote{}, err
	}
	s.publishQuoteUpdated(ctx, sess)
	return sess.Quote, nil
}

// RemoveItem drops one line from the quote.
func (s *Service) RemoveItem(ctx context.Context, sessionID, code string) (quote.Quote, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return quote.Quote{}, err
	}
	if !sess.Quote.RemoveItem(code) {
		return quote.Quote{}, apperr.NotFound("el producto no está en la cotización")
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return quote.Quote{}, err
	}
	s.publishQuoteUpdated(ctx, sess)
	return sess.Quote, nil
}

func (s *Service) publishQuoteUpdated(ctx context.Context, sess *session.Session) {
	s.bus.Publish(ctx, events.QuoteUpdated{
		BaseEvent: events.NewBaseEvent(),
		SessionID: sess.ID,
		ItemCount: len(sess.Quote.Items),
		Total:     sess.Quote.Total,
	})
}
