package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"cotizador_backend/internal/chat/agent"
	"cotizador_backend/internal/chat/service"
	"cotizador_backend/internal/chat/session"
	"cotizador_backend/internal/chat/transport"
	"cotizador_backend/internal/catalog/repository"
	catalogsvc "cotizador_backend/internal/catalog/service"
	"cotizador_backend/internal/events"
	"cotizador_backend/internal/orders"
	"cotizador_backend/internal/quote"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"
)

type staticModel struct {
	text string
}

func (m *staticModel) GenerateContent(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: m.text}},
			},
		}},
	}, nil
}

func (m *staticModel) ModelName() string { return "test-model" }

type staticRepo struct {
	products []repository.Product
}

func (r *staticRepo) Catalog(ctx context.Context) []repository.Product { return r.products }
func (r *staticRepo) Refresh()                                         {}

type stubOrders struct{}

func (s *stubOrders) CreateOrder(ctx context.Context, items []quote.CartItem) (orders.Result, error) {
	return orders.Result{OrderID: "DUX-1234", Status: "created"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("test")
	val := validator.New()

	catSvc := catalogsvc.New(&staticRepo{products: []repository.Product{
		{Code: "ROT-1", Name: "Rotor PGP", Category: "Rotores", Price: 100},
	}}, log)
	store := session.NewMemoryStore()
	ag := agent.New(&staticModel{text: "Hola"}, val, log)
	resolver := quote.NewResolver(catSvc, log)
	bus := events.NewInMemoryBus(log)

	svc := service.New(store, ag, catSvc, resolver, &stubOrders{}, bus, log)
	h := New(svc, val)

	engine := gin.New()
	sessions := engine.Group("/api/v1/chat/sessions")
	sessions.POST("", h.StartSession)
	sessions.GET("/:id", h.GetSession)
	sessions.POST("/:id/messages", h.SendMessage)
	sessions.GET("/:id/quote", h.GetQuote)
	sessions.PUT("/:id/quote/items/:code", h.UpdateItem)
	sessions.DELETE("/:id/quote/items/:code", h.RemoveItem)

	return engine, store
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func startSession(t *testing.T, engine *gin.Engine) transport.SessionResponse {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/chat/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("start session status = %d", w.Code)
	}
	var resp transport.SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return resp
}

func TestStartSessionEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)

	resp := startSession(t, engine)
	if resp.ID == "" {
		t.Fatal("expected session id")
	}
	if len(resp.Turns) != 1 || resp.Turns[0].Role != session.RoleModel {
		t.Fatalf("expected welcome turn, got %+v", resp.Turns)
	}
	if resp.Quote.Status != string(quote.StatusDraft) {
		t.Fatalf("Quote.Status = %q, want draft", resp.Quote.Status)
	}
}

func TestSendMessageEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)
	sess := startSession(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/chat/sessions/"+sess.ID+"/messages", `{"message":"hola"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp transport.MessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "Hola" {
		t.Fatalf("Reply = %q", resp.Reply)
	}
}

func TestSendMessageEndpointValidation(t *testing.T) {
	engine, _ := newTestRouter(t)
	sess := startSession(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/chat/sessions/"+sess.ID+"/messages", `{"message":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w = doJSON(t, engine, http.MethodPost, "/api/v1/chat/sessions/"+sess.ID+"/messages", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSendMessageEndpointUnknownSession(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/chat/sessions/nope/messages", `{"message":"hola"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestQuoteEndpoints(t *testing.T) {
	engine, store := newTestRouter(t)
	sess := startSession(t, engine)

	// Seed a quote line directly through the store.
	stored, err := store.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	stored.Quote.SetItems([]quote.CartItem{
		quote.NewCartItem(repository.Product{Code: "ROT-1", Name: "Rotor PGP", Price: 100}, 1),
	})
	if err := store.Save(context.Background(), stored); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := doJSON(t, engine, http.MethodGet, "/api/v1/chat/sessions/"+sess.ID+"/quote", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get quote status = %d", w.Code)
	}
	var q transport.QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if len(q.Items) != 1 || q.Total != 100 {
		t.Fatalf("unexpected quote: %+v", q)
	}

	w = doJSON(t, engine, http.MethodPut, "/api/v1/chat/sessions/"+sess.ID+"/quote/items/ROT-1", `{"quantity":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update item status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if q.Total != 300 || q.Items[0].Subtotal != 300 {
		t.Fatalf("quantity update not applied: %+v", q)
	}

	w = doJSON(t, engine, http.MethodPut, "/api/v1/chat/sessions/"+sess.ID+"/quote/items/ROT-1", `{"quantity":0}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero quantity status = %d, want 400", w.Code)
	}

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/chat/sessions/"+sess.ID+"/quote/items/ROT-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete item status = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if len(q.Items) != 0 || q.Total != 0 {
		t.Fatalf("item not removed: %+v", q)
	}

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/chat/sessions/"+sess.ID+"/quote/items/ROT-1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}
