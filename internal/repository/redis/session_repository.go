package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const sessionPrefix = "sessions:"

type sessionRepository struct {
	client *goredis.Client
}

func NewSessionRepository(client *goredis.Client) repository.SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" || session.UserID == uuid.Nil {
		return domain.ErrInvalidInput
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, sessionKey(session.ID), map[string]interface{}{
		"user_id":    session.UserID.String(),
		"created_at": session.CreatedAt.Unix(),
		"expires_at": session.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, sessionKey(session.ID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create redis session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	values, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session hash: %w", err)
	}
	if len(values) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	userID, err := uuid.Parse(values["user_id"])
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	createdAt, _ := strconv.ParseInt(values["created_at"], 10, 64)
	expiresAt, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	return &domain.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
	}, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionPrefix + id
}
