package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cotizador_backend/internal/quote"
	"cotizador_backend/platform/apperr"
)

const redisKeyPrefix = "chat:session:"

// RedisStore persists sessions in Redis with a TTL, so conversations survive
// process restarts and expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Create starts a new session and writes it to Redis.
func (s *RedisStore) Create(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Quote:     quote.NewQuote(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.write(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session. Expired or unknown ids map to NotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("sesión no encontrada")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "el almacén de sesiones no está disponible", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Save stores the session and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.write(ctx, sess)
}

func (s *RedisStore) write(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "el almacén de sesiones no está disponible", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
