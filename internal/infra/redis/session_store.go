package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"quizbot/internal/domain"
)

// SessionStore keeps per-user quiz sessions in Redis, one hash per user:
// HSET quiz:session:{userID} index {i} score {s} answered {a}
// The key TTL doubles as the eviction policy for abandoned sessions.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) GetOrCreate(ctx context.Context, userID string) (domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	if len(fields) == 0 {
		session := domain.NewSession()
		if err := s.write(ctx, userID, session); err != nil {
			return domain.Session{}, err
		}
		return session, nil
	}
	return decodeSession(fields)
}

func (s *SessionStore) Put(ctx context.Context, userID string, session domain.Session) error {
	return s.write(ctx, userID, session)
}

func (s *SessionStore) Reset(ctx context.Context, userID string) error {
	return s.write(ctx, userID, domain.NewSession())
}

func (s *SessionStore) write(ctx context.Context, userID string, session domain.Session) error {
	key := s.key(userID)
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key,
		"index", session.Index,
		"score", session.Score,
		"answered", session.Answered,
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(userID string) string {
	return "quiz:session:" + userID
}

func decodeSession(fields map[string]string) (domain.Session, error) {
	var session domain.Session
	var err error
	if session.Index, err = strconv.Atoi(fields["index"]); err != nil {
		return domain.Session{}, fmt.Errorf("index %q: %w", fields["index"], domain.ErrSessionCorrupt)
	}
	if session.Score, err = strconv.Atoi(fields["score"]); err != nil {
		return domain.Session{}, fmt.Errorf("score %q: %w", fields["score"], domain.ErrSessionCorrupt)
	}
	if session.Answered, err = strconv.Atoi(fields["answered"]); err != nil {
		return domain.Session{}, fmt.Errorf("answered %q: %w", fields["answered"], domain.ErrSessionCorrupt)
	}
	return session, nil
}
