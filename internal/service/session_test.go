package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSessionStore connects to the Redis named by TEST_REDIS_ADDR, or
// skips. Integration coverage runs against a containerized Redis.
func setupSessionStore(t *testing.T) *service.SessionService {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping Redis-backed session tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { client.Close() })
	return service.NewSessionService(client, time.Minute)
}

func TestSessionService(t *testing.T) {
	ctx := context.Background()

	t.Run("should return not found for an unknown session", func(t *testing.T) {
		store := setupSessionStore(t)

		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, service.ErrSessionNotFound)
	})

	t.Run("should round-trip the full session record", func(t *testing.T) {
		store := setupSessionStore(t)

		state := models.NewSessionState("user-1")
		state.WorkflowState = models.StateSatisfactionCheck
		state.TurnCount = 3
		state.AppendExchange(models.RoleUser, "suggest a meal")
		state.LastRecommendation = &models.Recommendation{
			ID:      "rec-1",
			Summary: "Pad Thai",
			Source:  models.RecommendationSourceModel,
		}
		age := 34
		state.PendingProfile.Age = &age
		require.NoError(t, store.Save(ctx, state))

		loaded, err := store.Get(ctx, state.SessionID)
		require.NoError(t, err)
		assert.Equal(t, models.StateSatisfactionCheck, loaded.WorkflowState)
		assert.Equal(t, 3, loaded.TurnCount)
		require.NotNil(t, loaded.LastRecommendation)
		assert.Equal(t, "Pad Thai", loaded.LastRecommendation.Summary)
		require.NotNil(t, loaded.PendingProfile.Age)
		assert.Equal(t, 34, *loaded.PendingProfile.Age)
	})

	t.Run("should forget a deleted session", func(t *testing.T) {
		store := setupSessionStore(t)

		state := models.NewSessionState("user-1")
		require.NoError(t, store.Save(ctx, state))
		require.NoError(t, store.Delete(ctx, state.SessionID))

		_, err := store.Get(ctx, state.SessionID)
		assert.ErrorIs(t, err, service.ErrSessionNotFound)
	})
}
