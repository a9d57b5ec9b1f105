package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-school-site/internal/models"
)

const (
	wizardKeyPrefix   = "wizard:"
	maxUpdateAttempts = 5
)

// RedisWizardStore persists wizards as JSON values with a sliding TTL.
type RedisWizardStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisWizardStore constructs a Redis-backed store.
func NewRedisWizardStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisWizardStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisWizardStore{client: client, ttl: ttl, logger: logger}
}

func wizardKey(id string) string {
	return wizardKeyPrefix + id
}

func (s *RedisWizardStore) Create(ctx context.Context, state *models.WizardState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal wizard %s: %w", state.ID, err)
	}
	if err := s.client.Set(ctx, wizardKey(state.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", wizardKey(state.ID), err)
	}
	return nil
}

func (s *RedisWizardStore) Get(ctx context.Context, id string) (*models.WizardState, error) {
	return s.read(ctx, s.client, id)
}

// Update runs fn inside a WATCH transaction so concurrent writers cannot interleave.
func (s *RedisWizardStore) Update(ctx context.Context, id string, fn func(*models.WizardState) error) (*models.WizardState, error) {
	key := wizardKey(id)
	var result *models.WizardState
	var fnErr error

	txf := func(tx *redis.Tx) error {
		state, err := s.read(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			result, fnErr = state, err
			return nil
		}
		payload, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal wizard %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err == nil {
			result = state
		}
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug("wizard update raced, retrying", zap.String("wizard_id", id), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, fnErr
	}
	return nil, fmt.Errorf("update wizard %s: too much contention", id)
}

func (s *RedisWizardStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, wizardKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete %s: %w", wizardKey(id), err)
	}
	if n == 0 {
		return errWizardNotFound
	}
	return nil
}

func (s *RedisWizardStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (s *RedisWizardStore) Close() error {
	return s.client.Close()
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisWizardStore) read(ctx context.Context, cmd stringGetter, id string) (*models.WizardState, error) {
	raw, err := cmd.Get(ctx, wizardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errWizardNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", wizardKey(id), err)
	}
	var state models.WizardState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal wizard %s: %w", id, err)
	}
	return &state, nil
}
