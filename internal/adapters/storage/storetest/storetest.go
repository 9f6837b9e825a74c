// Package storetest holds the behaviour every domain.GenerationStore
// backend must share.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

func sampleRecord(user domain.UserID, situation string, at time.Time) *domain.GenerationRecord {
	return &domain.GenerationRecord{
		UserID:         user,
		SituationInput: situation,
		Response: domain.BoundaryResponse{
			QuickTake: domain.QuickTake{Validation: "It is fair to want this.", Insight: "No is a full sentence."},
			Options: [3]domain.BoundaryOption{
				{Level: domain.LevelSoft, Emoji: "🟢", Title: "The Soft No (Relationship Preserving)", UseWhen: "u1", Script: "s1", WhyItWorks: "w1"},
				{Level: domain.LevelClear, Emoji: "🟡", Title: "The Clear No (Professional & Direct)", UseWhen: "u2", Script: "s2", WhyItWorks: "w2"},
				{Level: domain.LevelWall, Emoji: "🔴", Title: "The Wall (Non-Negotiable)", UseWhen: "u3", Script: "s3", WhyItWorks: "w3"},
			},
			VisualMoodLighteners: []domain.VisualMoodLightener{
				{Prompt: "a turtle", ImageURL: "https://img/1"},
				{Prompt: "a cat", ImageURL: ""},
			},
		},
		CreatedAt: at,
	}
}

// Run exercises a fresh, empty store.
func Run(t *testing.T, store domain.GenerationStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var aliceIDs []domain.GenerationID
	for i := 0; i < 4; i++ {
		id, err := store.InsertGeneration(ctx, sampleRecord("alice", fmt.Sprintf("situation %d", i), base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		require.NotEmpty(t, id)
		aliceIDs = append(aliceIDs, id)
	}
	bobID, err := store.InsertGeneration(ctx, sampleRecord("bob", "bob's", base))
	require.NoError(t, err)

	t.Run("get round trip", func(t *testing.T) {
		got, err := store.GetGeneration(ctx, "alice", aliceIDs[0])
		require.NoError(t, err)
		want := sampleRecord("alice", "situation 0", base)
		assert.Equal(t, aliceIDs[0], got.ID)
		assert.Equal(t, want.UserID, got.UserID)
		assert.Equal(t, want.SituationInput, got.SituationInput)
		assert.Equal(t, want.Response, got.Response)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, want.CreatedAt)
	})

	t.Run("owner scoped", func(t *testing.T) {
		_, err := store.GetGeneration(ctx, "alice", bobID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = store.GetGeneration(ctx, "alice", "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, store.DeleteGeneration(ctx, "alice", bobID), domain.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		recs, err := store.ListGenerationsByUser(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, recs, 4)
		for i, r := range recs {
			assert.Equal(t, fmt.Sprintf("situation %d", 3-i), r.SituationInput)
		}

		recs, err = store.ListGenerationsByUser(ctx, "alice", 2)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, aliceIDs[3], recs[0].ID)

		recs, err = store.ListGenerationsByUser(ctx, "nobody", 10)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteGeneration(ctx, "alice", aliceIDs[3]))
		assert.ErrorIs(t, store.DeleteGeneration(ctx, "alice", aliceIDs[3]), domain.ErrNotFound)

		recs, err := store.ListGenerationsByUser(ctx, "alice", 1)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, aliceIDs[2], recs[0].ID)

		_, err = store.GetGeneration(ctx, "bob", bobID)
		assert.NoError(t, err)
	})
}
