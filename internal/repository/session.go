package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	Save(ctx context.Context, profile string, session *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, profile string) (*entity.Session, error)
	Delete(ctx context.Context, profile string) error
}

type redisSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &redisSession{
		client: client,
	}
}

// Save - stores the session under the profile. A zero ttl keeps it until deleted.
func (that *redisSession) Save(ctx context.Context, profile string, session *entity.Session, ttl time.Duration) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err = that.client.Set(ctx, sessionKeyPrefix+profile, sessionJSON, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *redisSession) Get(ctx context.Context, profile string) (*entity.Session, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+profile).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (that *redisSession) Delete(ctx context.Context, profile string) error {
	if err := that.client.Del(ctx, sessionKeyPrefix+profile).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
