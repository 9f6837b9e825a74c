package firestore

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

func TestDocConversionKeepsRecord(t *testing.T) {
	rec := &domain.GenerationRecord{
		ID:             "gen-1",
		UserID:         "alice",
		SituationInput: "my boss calls on weekends",
		Response: domain.BoundaryResponse{
			QuickTake: domain.QuickTake{Validation: "v", Insight: "i"},
			Options: [3]domain.BoundaryOption{
				{Level: domain.LevelSoft, Emoji: "🟢", Title: "soft", UseWhen: "u1", Script: "s1", WhyItWorks: "w1"},
				{Level: domain.LevelClear, Emoji: "🟡", Title: "clear", UseWhen: "u2", Script: "s2", WhyItWorks: "w2"},
				{Level: domain.LevelWall, Emoji: "🔴", Title: "wall", UseWhen: "u3", Script: "s3", WhyItWorks: "w3"},
			},
			VisualMoodLighteners: []domain.VisualMoodLightener{{Prompt: "p", ImageURL: ""}},
		},
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	got := fromDoc("gen-1", toDoc(rec))

	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
