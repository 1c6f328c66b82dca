package rollsession

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-roller/internal/redis"
)

const (
	// Key pattern: roll_session:{entity_id}:{context}
	sessionKeyPrefix = "roll_session:"

	// DefaultTTL applies when CreateInput.TTL is zero
	DefaultTTL = 15 * time.Minute

	errSessionNil     = "session cannot be nil"
	errEntityIDEmpty  = "entity ID cannot be empty"
	errContextEmpty   = "context cannot be empty"
	errSessionExpired = "session has already expired"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for roll sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateKey(input.EntityID, input.Context); err != nil {
		return nil, err
	}
	if input.TTL < 0 {
		return nil, errors.InvalidArgument("ttl must not be negative")
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	now := r.clock.Now()
	session := &RollSession{
		EntityID:  input.EntityID,
		Context:   input.Context,
		Rolls:     input.Rolls,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := r.store(ctx, session, ttl); err != nil {
		return nil, err
	}

	return &CreateOutput{Session: session}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.EntityID, input.Context); err != nil {
		return nil, err
	}

	key := buildKey(input.EntityID, input.Context)

	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("roll session not found")
		}
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	var session RollSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	// Redis expiry and the injected clock can disagree; the clock wins
	if !r.clock.Now().Before(session.ExpiresAt) {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			slog.WarnContext(ctx, "failed to delete expired roll session",
				"key", key,
				"error", err)
		}
		return nil, errors.NotFound("roll session has expired")
	}

	return &GetOutput{Session: &session}, nil
}

func (r *redisRepository) Update(ctx context.Context, session *RollSession) error {
	if session == nil {
		return errors.InvalidArgument(errSessionNil)
	}
	if err := validateKey(session.EntityID, session.Context); err != nil {
		return err
	}

	remaining := session.ExpiresAt.Sub(r.clock.Now())
	if remaining <= 0 {
		return errors.FailedPrecondition(errSessionExpired)
	}

	return r.store(ctx, session, remaining)
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.EntityID, input.Context); err != nil {
		return nil, err
	}

	var rollsDeleted int
	existing, err := r.Get(ctx, GetInput(input))
	switch {
	case err == nil:
		rollsDeleted = len(existing.Session.Rolls)
	case !errors.IsNotFound(err):
		return nil, err
	}

	if err := r.client.Del(ctx, buildKey(input.EntityID, input.Context)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete session from Redis")
	}

	return &DeleteOutput{RollsDeleted: rollsDeleted}, nil
}

func (r *redisRepository) store(ctx context.Context, session *RollSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal session")
	}

	key := buildKey(session.EntityID, session.Context)
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to store session in Redis")
	}
	return nil
}

func validateKey(entityID, context string) error {
	if entityID == "" {
		return errors.InvalidArgument(errEntityIDEmpty)
	}
	if context == "" {
		return errors.InvalidArgument(errContextEmpty)
	}
	return nil
}

func buildKey(entityID, context string) string {
	return fmt.Sprintf("%s%s:%s", sessionKeyPrefix, entityID, context)
}
