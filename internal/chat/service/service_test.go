package service

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"cotizador_backend/internal/chat/agent"
	"cotizador_backend/internal/chat/session"
	"cotizador_backend/internal/catalog/repository"
	catalogsvc "cotizador_backend/internal/catalog/service"
	"cotizador_backend/internal/events"
	"cotizador_backend/internal/orders"
	"cotizador_backend/internal/quote"
	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"
)

type scriptedModel struct {
	responses []*genai.GenerateContentResponse
	err       error
	calls     int
}

func (m *scriptedModel) GenerateContent(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	idx := m.calls - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

func (m *scriptedModel) ModelName() string { return "test-model" }

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func callResponse(name string, args map[string]interface{}) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{{
					FunctionCall: &genai.FunctionCall{ID: "call-1", Name: name, Args: args},
				}},
			},
		}},
	}
}

type staticRepo struct {
	products []repository.Product
}

func (r *staticRepo) Catalog(ctx context.Context) []repository.Product { return r.products }
func (r *staticRepo) Refresh()                                         {}

type stubOrders struct {
	calls int
	fail  bool
}

func (s *stubOrders) CreateOrder(ctx context.Context, items []quote.CartItem) (orders.Result, error) {
	s.calls++
	if s.fail {
		return orders.Result{}, errors.New("dux no disponible")
	}
	return orders.Result{OrderID: "DUX-1234", Status: "created"}, nil
}

func newTestService(model agent.Generator, orderClient orders.Creator) (*Service, session.Store) {
	log := logger.New("test")
	val := validator.New()

	catRepo := &staticRepo{products: []repository.Product{
		{Code: "ROT-1", Name: "Rotor PGP", Category: "Rotores", Price: 32363},
		{Code: "TUB-25", Name: "Tubo PE 25mm", Category: "Conducción", Price: 1200},
	}}
	catSvc := catalogsvc.New(catRepo, log)

	store := session.NewMemoryStore()
	ag := agent.New(model, val, log)
	resolver := quote.NewResolver(catSvc, log)
	bus := events.NewInMemoryBus(log)

	return New(store, ag, catSvc, resolver, orderClient, bus, log), store
}

func TestStartSessionSeedsWelcome(t *testing.T) {
	svc, _ := newTestService(&scriptedModel{responses: []*genai.GenerateContentResponse{textResponse("hola")}}, &stubOrders{})

	sess, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if len(sess.Turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(sess.Turns))
	}
	if sess.Turns[0].Role != session.RoleModel || sess.Turns[0].Text != welcomeMessage {
		t.Fatalf("unexpected opening turn: %+v", sess.Turns[0])
	}
}

func TestSendMessageAppendsTurns(t *testing.T) {
	svc, store := newTestService(&scriptedModel{responses: []*genai.GenerateContentResponse{textResponse("Claro, aquí tienes")}}, &stubOrders{})
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	got, err := svc.SendMessage(ctx, sess.ID, "quiero un rotor")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if len(got.Turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got.Turns))
	}
	if got.Turns[1].Role != session.RoleUser || got.Turns[1].Text != "quiero un rotor" {
		t.Fatalf("user turn wrong: %+v", got.Turns[1])
	}
	if got.Turns[2].Role != session.RoleModel || got.Turns[2].Text != "Claro, aquí tienes" {
		t.Fatalf("model turn wrong: %+v", got.Turns[2])
	}

	// Persisted, not just returned.
	stored, _ := store.Get(ctx, sess.ID)
	if len(stored.Turns) != 3 {
		t.Fatalf("turns not saved: %d", len(stored.Turns))
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	svc, _ := newTestService(&scriptedModel{responses: []*genai.GenerateContentResponse{textResponse("ok")}}, &stubOrders{})

	_, err := svc.SendMessage(context.Background(), "nope", "hola")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSendMessageQuotaErrorBecomesReply(t *testing.T) {
	model := &scriptedModel{err: errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")}
	svc, _ := newTestService(model, &stubOrders{})
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	got, err := svc.SendMessage(ctx, sess.ID, "hola")
	if err != nil {
		t.Fatalf("quota exhaustion must not be an HTTP error: %v", err)
	}
	if got.Turns[len(got.Turns)-1].Text != quotaMessage {
		t.Fatalf("expected quota message, got %q", got.Turns[len(got.Turns)-1].Text)
	}
}

func TestSendMessageTransportErrorBecomesReply(t *testing.T) {
	model := &scriptedModel{err: errors.New("connection refused")}
	svc, _ := newTestService(model, &stubOrders{})
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	got, err := svc.SendMessage(ctx, sess.ID, "hola")
	if err != nil {
		t.Fatalf("transport failure must not be an HTTP error: %v", err)
	}
	if got.Turns[len(got.Turns)-1].Text != failureMessage {
		t.Fatalf("expected failure message, got %q", got.Turns[len(got.Turns)-1].Text)
	}
}

func TestSendMessageNoAnswerSubstituted(t *testing.T) {
	svc, _ := newTestService(&scriptedModel{responses: []*genai.GenerateContentResponse{textResponse("")}}, &stubOrders{})
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	got, err := svc.SendMessage(ctx, sess.ID, "hola")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got.Turns[len(got.Turns)-1].Text != noAnswerMessage {
		t.Fatalf("expected clarification prompt, got %q", got.Turns[len(got.Turns)-1].Text)
	}
}

func TestUpdateQuoteToolResolvesItems(t *testing.T) {
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{
		callResponse(agent.ToolUpdateQuote, map[string]interface{}{
			"items": []interface{}{
				map[string]interface{}{"code": "rot-1", "quantity": 2},
				map[string]interface{}{"code": "INEXISTENTE", "quantity": 1},
			},
		}),
		textResponse("Agregué el rotor a la cotización"),
	}}
	svc, _ := newTestService(model, &stubOrders{})
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	got, err := svc.SendMessage(ctx, sess.ID, "agrega un rotor")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	q := got.Quote
	if len(q.Items) != 1 {
		t.Fatalf("expected 1 resolved item, got %d", len(q.Items))
	}
	if q.Items[0].Code != "ROT-1" || q.Items[0].Quantity != 2 {
		t.Fatalf("unexpected item: %+v", q.Items[0])
	}
	if q.Total != 64726 {
		t.Fatalf("Total = %v, want 64726", q.Total)
	}
	if q.Status != quote.StatusDraft {
		t.Fatalf("Status = %s, want draft", q.Status)
	}
}

func TestCreateOrderToolRequiresConfirmation(t *testing.T) {
	backend := &stubOrders{}
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{
		callResponse(agent.ToolCreateOrder, map[string]interface{}{
			"confirmed": false,
			"items": []interface{}{
				map[string]interface{}{"code": "ROT-1", "quantity": 1},
			},
		}),
		textResponse("Necesito tu confirmación"),
	}}
	svc, _ := newTestService(model, backend)
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	got, err := svc.SendMessage(ctx, sess.ID, "crea el pedido")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if backend.calls != 0 {
		t.Fatalf("order backend called %d times without confirmation", backend.calls)
	}
	if got.Quote.Status != quote.StatusDraft {
		t.Fatalf("Status = %s, want draft", got.Quote.Status)
	}
}

func TestCreateOrderToolSubmits(t *testing.T) {
	backend := &stubOrders{}
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{
		callResponse(agent.ToolCreateOrder, map[string]interface{}{
			"confirmed": true,
			"items": []interface{}{
				map[string]interface{}{"code": "ROT-1", "quantity": 2},
			},
		}),
		textResponse("Pedido creado"),
	}}
	svc, _ := newTestService(model, backend)
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	got, err := svc.SendMessage(ctx, sess.ID, "sí, confirmo")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("order backend calls = %d, want 1", backend.calls)
	}
	if got.Quote.Status != quote.StatusSubmitted {
		t.Fatalf("Status = %s, want submitted", got.Quote.Status)
	}
	if got.Quote.OrderID != "DUX-1234" {
		t.Fatalf("OrderID = %q, want DUX-1234", got.Quote.OrderID)
	}
}

func TestCreateOrderToolBackendFailure(t *testing.T) {
	backend := &stubOrders{fail: true}
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{
		callResponse(agent.ToolCreateOrder, map[string]interface{}{
			"confirmed": true,
			"items": []interface{}{
				map[string]interface{}{"code": "ROT-1", "quantity": 1},
			},
		}),
		textResponse("Hubo un problema con el pedido"),
	}}
	svc, _ := newTestService(model, backend)
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	got, err := svc.SendMessage(ctx, sess.ID, "sí, confirmo")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got.Quote.Status != quote.StatusConfirmed {
		t.Fatalf("Status = %s, want confirmed", got.Quote.Status)
	}
	if got.Quote.OrderID != "" {
		t.Fatalf("OrderID = %q, want empty", got.Quote.OrderID)
	}
}

func TestCreateOrderToolNoValidItems(t *testing.T) {
	backend := &stubOrders{}
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{
		callResponse(agent.ToolCreateOrder, map[string]interface{}{
			"confirmed": true,
			"items": []interface{}{
				map[string]interface{}{"code": "INEXISTENTE", "quantity": 1},
			},
		}),
		textResponse("No encontré esos productos"),
	}}
	svc, _ := newTestService(model, backend)
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	if _, err := svc.SendMessage(ctx, sess.ID, "sí, confirmo"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if backend.calls != 0 {
		t.Fatalf("order backend called with no resolvable items")
	}
}

func TestSetItemQuantity(t *testing.T) {
	svc, store := newTestService(&scriptedModel{responses: []*genai.GenerateContentResponse{textResponse("ok")}}, &stubOrders{})
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	sess.Quote.SetItems([]quote.CartItem{
		quote.NewCartItem(repository.Product{Code: "ROT-1", Price: 100}, 1),
	})
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	q, err := svc.SetItemQuantity(ctx, sess.ID, "ROT-1", 4)
	if err != nil {
		t.Fatalf("SetItemQuantity: %v", err)
	}
	if q.Total != 400 {
		t.Fatalf("Total = %v, want 400", q.Total)
	}

	if _, err := svc.SetItemQuantity(ctx, sess.ID, "ROT-1", 0); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
	if _, err := svc.SetItemQuantity(ctx, sess.ID, "ZZZ", 2); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown code, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	svc, store := newTestService(&scriptedModel{responses: []*genai.GenerateContentResponse{textResponse("ok")}}, &stubOrders{})
	ctx := context.Background()

	sess, _ := svc.StartSession(ctx)
	sess.Quote.SetItems([]quote.CartItem{
		quote.NewCartItem(repository.Product{Code: "ROT-1", Price: 100}, 1),
	})
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	q, err := svc.RemoveItem(ctx, sess.ID, "ROT-1")
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(q.Items) != 0 || q.Total != 0 {
		t.Fatalf("item not removed: %+v", q)
	}

	if _, err := svc.RemoveItem(ctx, sess.ID, "ROT-1"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
