// Package session holds per-conversation state: the message transcript and
// the quote being built within it.
package session

import (
	"context"
	"time"

	"cotizador_backend/internal/quote"
)

// Roles of a conversation turn.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message in the transcript.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is one conversation with its quote.
type Session struct {
	ID        string      `json:"id"`
	Turns     []Turn      `json:"turns"`
	Quote     quote.Quote `json:"quote"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// AppendTurn records a message in the transcript.
func (s *Session) AppendTurn(role, text string) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text})
}

// Store persists sessions. Get returns apperr.NotFound when the id is
// unknown or expired.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
}
