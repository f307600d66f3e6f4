package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"cotizador_backend/internal/quote"
	"cotizador_backend/platform/apperr"
)

// MemoryStore keeps sessions in process memory. State lives as long as the
// process does; it is the default store when Redis is not configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create starts a new session with an empty transcript and an empty draft
// quote.
func (s *MemoryStore) Create(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Quote:     quote.NewQuote(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get returns a copy of the stored session so callers can mutate it freely
// before Save.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	stored, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("sesión no encontrada")
	}

	copied := *stored
	copied.Turns = append([]Turn(nil), stored.Turns...)
	copied.Quote.Items = append([]quote.CartItem(nil), stored.Quote.Items...)
	return &copied, nil
}

// Save stores the session, stamping UpdatedAt.
func (s *MemoryStore) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return nil
}

var _ Store = (*MemoryStore)(nil)
