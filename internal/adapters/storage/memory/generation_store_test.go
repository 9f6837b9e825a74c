package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boundarycoach/boundary-api/internal/adapters/storage/storetest"
	"github.com/boundarycoach/boundary-api/internal/domain"
)

func TestGenerationStoreContract(t *testing.T) {
	storetest.Run(t, NewGenerationStore())
}

func record(user domain.UserID, situation string) *domain.GenerationRecord {
	return &domain.GenerationRecord{
		UserID:         user,
		SituationInput: situation,
		Response: domain.BoundaryResponse{
			QuickTake:            domain.QuickTake{Validation: "v", Insight: "i"},
			VisualMoodLighteners: []domain.VisualMoodLightener{{Prompt: "p", ImageURL: "u"}},
		},
	}
}

func TestInsertGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewGenerationStore()

	id, err := s.InsertGeneration(ctx, record("alice", "noisy neighbor"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetGeneration(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "noisy neighbor", got.SituationInput)

	_, err = s.GetGeneration(ctx, "bob", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteGeneration(ctx, "bob", id), domain.ErrNotFound)

	require.NoError(t, s.DeleteGeneration(ctx, "alice", id))
	_, err = s.GetGeneration(ctx, "alice", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := s.ListGenerationsByUser(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	s := NewGenerationStore()

	for i := 0; i < 5; i++ {
		_, err := s.InsertGeneration(ctx, record("alice", fmt.Sprintf("situation %d", i)))
		require.NoError(t, err)
	}
	_, err := s.InsertGeneration(ctx, record("bob", "other"))
	require.NoError(t, err)

	list, err := s.ListGenerationsByUser(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "situation 4", list[0].SituationInput)
	assert.Equal(t, "situation 3", list[1].SituationInput)

	all, err := s.ListGenerationsByUser(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStoredRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewGenerationStore()

	rec := record("alice", "x")
	id, err := s.InsertGeneration(ctx, rec)
	require.NoError(t, err)
	assert.Empty(t, rec.ID, "caller's record is not modified")

	rec.Response.VisualMoodLighteners[0].ImageURL = "changed"

	got, err := s.GetGeneration(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "u", got.Response.VisualMoodLighteners[0].ImageURL)
}
