package generation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boundarycoach/boundary-api/internal/adapters/llm"
	"github.com/boundarycoach/boundary-api/internal/adapters/storage/memory"
	"github.com/boundarycoach/boundary-api/internal/app/boundary"
	"github.com/boundarycoach/boundary-api/internal/app/generation"
	"github.com/boundarycoach/boundary-api/internal/app/imaging"
	"github.com/boundarycoach/boundary-api/internal/domain"
)

var alice = &domain.User{ID: "alice", Email: "alice@example.com"}

type failingText struct{}

func (failingText) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("quota exceeded")
}

type recordingText struct {
	system, user string
}

func (r *recordingText) Complete(ctx context.Context, system, user string) (string, error) {
	r.system, r.user = system, user
	return llm.NewMockLLM().Complete(ctx, system, user)
}

// imageFunc adapts a function to domain.ImageGenerator.
type imageFunc func(ctx context.Context, prompt string) (string, error)

func (f imageFunc) Generate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

type failingBatch struct{ err error }

func (b failingBatch) GenerateAll(context.Context, []string) ([]string, error) { return nil, b.err }

type panickingBatch struct{}

func (panickingBatch) GenerateAll(context.Context, []string) ([]string, error) { panic("boom") }

type failingStore struct{ *memory.GenerationStore }

func (failingStore) InsertGeneration(context.Context, *domain.GenerationRecord) (domain.GenerationID, error) {
	return "", errors.New("disk full")
}

func numberedImages() domain.ImageGenerator {
	n := 0
	return imageFunc(func(context.Context, string) (string, error) {
		n++
		if n == 2 {
			return "", errors.New("nsfw filter")
		}
		return "https://img.example/" + string(rune('0'+n)), nil
	})
}

func newService(text domain.TextGenerator, images generation.ImageBatch, store domain.GenerationStore) *generation.Service {
	return generation.NewService(text, images, store)
}

func TestGenerateEndToEnd(t *testing.T) {
	ctx := context.Background()
	text := &recordingText{}
	store := memory.NewGenerationStore()
	svc := newService(text, imaging.NewOrchestrator(numberedImages(), 0), store)

	out, err := svc.Generate(ctx, generation.GenerateInput{
		Situation: "  my sister keeps borrowing money  ",
		User:      alice,
	})
	require.NoError(t, err)
	require.True(t, out.Saved)

	rec := out.Record
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "my sister keeps borrowing money", rec.SituationInput)
	assert.Equal(t, boundary.CoachPrompt, text.system)
	assert.Equal(t, boundary.UserMessage("my sister keeps borrowing money"), text.user)
	assert.NotEmpty(t, rec.Response.QuickTake.Validation)

	require.Len(t, rec.Response.VisualMoodLighteners, boundary.PromptCount)
	assert.Equal(t, "https://img.example/1", rec.Response.VisualMoodLighteners[0].ImageURL)
	assert.Empty(t, rec.Response.VisualMoodLighteners[1].ImageURL)
	assert.Equal(t, "https://img.example/3", rec.Response.VisualMoodLighteners[2].ImageURL)
	for _, v := range rec.Response.VisualMoodLighteners {
		assert.NotEmpty(t, v.Prompt)
	}

	stored, err := store.GetGeneration(ctx, alice.ID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Response, stored.Response)
}

func TestGenerateRejectsBlankSituation(t *testing.T) {
	svc := newService(llm.NewMockLLM(), nil, memory.NewGenerationStore())

	_, err := svc.Generate(context.Background(), generation.GenerateInput{Situation: " \n\t", User: alice})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateRequiresUser(t *testing.T) {
	svc := newService(llm.NewMockLLM(), nil, memory.NewGenerationStore())

	_, err := svc.Generate(context.Background(), generation.GenerateInput{Situation: "x"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGenerateTextFailure(t *testing.T) {
	store := memory.NewGenerationStore()
	svc := newService(failingText{}, nil, store)

	_, err := svc.Generate(context.Background(), generation.GenerateInput{Situation: "x", User: alice})

	require.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "quota exceeded")

	recs, err := store.ListGenerationsByUser(context.Background(), alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, recs, "nothing is saved when text generation fails")
}

func TestGenerateSurvivesImageBatchFailure(t *testing.T) {
	for name, batch := range map[string]generation.ImageBatch{
		"error": failingBatch{err: context.DeadlineExceeded},
		"panic": panickingBatch{},
		"none":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			svc := newService(llm.NewMockLLM(), batch, memory.NewGenerationStore())

			out, err := svc.Generate(context.Background(), generation.GenerateInput{Situation: "x", User: alice})

			require.NoError(t, err)
			assert.True(t, out.Saved)
			require.Len(t, out.Record.Response.VisualMoodLighteners, boundary.PromptCount)
			for _, v := range out.Record.Response.VisualMoodLighteners {
				assert.NotEmpty(t, v.Prompt)
				assert.Empty(t, v.ImageURL)
			}
		})
	}
}

func TestGenerateSurvivesStoreFailure(t *testing.T) {
	svc := newService(llm.NewMockLLM(), nil, failingStore{memory.NewGenerationStore()})

	out, err := svc.Generate(context.Background(), generation.GenerateInput{Situation: "x", User: alice})

	require.NoError(t, err)
	assert.False(t, out.Saved)
	assert.Empty(t, out.Record.ID)
	assert.NotEmpty(t, out.Record.Response.Options[0].Script)
}

func TestGenerateKeepsRecordWhenCanceledDuringImages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	images := imageFunc(func(context.Context, string) (string, error) {
		cancel()
		return "https://img.example/1", nil
	})
	store := memory.NewGenerationStore()
	svc := newService(&recordingText{}, imaging.NewOrchestrator(images, time.Second), store)

	out, err := svc.Generate(ctx, generation.GenerateInput{Situation: "x", User: alice})

	require.NoError(t, err)
	assert.True(t, out.Saved)
	for _, v := range out.Record.Response.VisualMoodLighteners {
		assert.Empty(t, v.ImageURL, "an interrupted batch yields no images")
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewGenerationStore()
	svc := newService(llm.NewMockLLM(), nil, store)

	for _, s := range []string{"Noisy neighbor", "boss wants weekends", "neighbor's dog"} {
		_, err := svc.Generate(ctx, generation.GenerateInput{Situation: s, User: alice})
		require.NoError(t, err)
	}
	_, err := svc.Generate(ctx, generation.GenerateInput{Situation: "neighbor party", User: &domain.User{ID: "bob"}})
	require.NoError(t, err)

	all, err := svc.ListGenerations(ctx, alice.ID, 0, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "neighbor's dog", all[0].SituationInput)

	found, err := svc.ListGenerations(ctx, alice.ID, 1, "NEIGHBOR")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "neighbor's dog", found[0].SituationInput)

	got, err := svc.GetGeneration(ctx, alice.ID, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "boss wants weekends", got.SituationInput)

	_, err = svc.GetGeneration(ctx, "bob", all[1].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeleteGeneration(ctx, alice.ID, all[1].ID))
	assert.ErrorIs(t, svc.DeleteGeneration(ctx, alice.ID, all[1].ID), domain.ErrNotFound)

	_, err = svc.ListGenerations(ctx, "", 10, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
