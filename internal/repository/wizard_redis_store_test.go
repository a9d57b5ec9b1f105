package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

// Runs against a real server when REDIS_TEST_ADDR is set, e.g. localhost:6379.
func newTestRedisStore(t *testing.T) *RedisWizardStore {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return NewRedisWizardStore(client, time.Minute, nil)
}

func TestRedisWizardStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, store.Create(ctx, &models.WizardState{ID: id, Step: models.StepCourse, Status: models.SubmitIdle}))

	updated, err := store.Update(ctx, id, func(s *models.WizardState) error {
		s.Step = models.StepGuardian
		s.Form.Email = "ola@example.no"
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, models.StepGuardian, updated.Step)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "ola@example.no", got.Form.Email)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}
