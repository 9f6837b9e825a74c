package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) generationsCol() *firestore.CollectionRef {
	return s.client.Collection("generations")
}

func (s *Store) generationDoc(id domain.GenerationID) *firestore.DocumentRef {
	return s.generationsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type optionDoc struct {
	Level      string `firestore:"level"`
	Emoji      string `firestore:"emoji"`
	Title      string `firestore:"title"`
	UseWhen    string `firestore:"use_when"`
	Script     string `firestore:"script"`
	WhyItWorks string `firestore:"why_it_works"`
}

type lightenerDoc struct {
	Prompt   string `firestore:"prompt"`
	ImageURL string `firestore:"image_url"`
}

type generationDoc struct {
	UserID         string         `firestore:"user_id"`
	SituationInput string         `firestore:"situation_input"`
	Validation     string         `firestore:"validation"`
	Insight        string         `firestore:"insight"`
	Options        []optionDoc    `firestore:"options"`
	Lighteners     []lightenerDoc `firestore:"visual_mood_lighteners"`
	CreatedAt      time.Time      `firestore:"created_at"`
}

func toDoc(rec *domain.GenerationRecord) generationDoc {
	doc := generationDoc{
		UserID:         string(rec.UserID),
		SituationInput: rec.SituationInput,
		Validation:     rec.Response.QuickTake.Validation,
		Insight:        rec.Response.QuickTake.Insight,
		CreatedAt:      rec.CreatedAt,
	}
	for _, o := range rec.Response.Options {
		doc.Options = append(doc.Options, optionDoc{
			Level:      string(o.Level),
			Emoji:      o.Emoji,
			Title:      o.Title,
			UseWhen:    o.UseWhen,
			Script:     o.Script,
			WhyItWorks: o.WhyItWorks,
		})
	}
	for _, v := range rec.Response.VisualMoodLighteners {
		doc.Lighteners = append(doc.Lighteners, lightenerDoc{Prompt: v.Prompt, ImageURL: v.ImageURL})
	}
	return doc
}

func fromDoc(id string, doc generationDoc) *domain.GenerationRecord {
	rec := &domain.GenerationRecord{
		ID:             domain.GenerationID(id),
		UserID:         domain.UserID(doc.UserID),
		SituationInput: doc.SituationInput,
		Response: domain.BoundaryResponse{
			QuickTake: domain.QuickTake{Validation: doc.Validation, Insight: doc.Insight},
		},
		CreatedAt: doc.CreatedAt,
	}
	for i, o := range doc.Options {
		if i >= len(rec.Response.Options) {
			break
		}
		rec.Response.Options[i] = domain.BoundaryOption{
			Level:      domain.Level(o.Level),
			Emoji:      o.Emoji,
			Title:      o.Title,
			UseWhen:    o.UseWhen,
			Script:     o.Script,
			WhyItWorks: o.WhyItWorks,
		}
	}
	rec.Response.VisualMoodLighteners = make([]domain.VisualMoodLightener, 0, len(doc.Lighteners))
	for _, v := range doc.Lighteners {
		rec.Response.VisualMoodLighteners = append(rec.Response.VisualMoodLighteners,
			domain.VisualMoodLightener{Prompt: v.Prompt, ImageURL: v.ImageURL})
	}
	return rec
}

// ─────────────────────────────────────────
// GenerationStore implementation
// ─────────────────────────────────────────

func (s *Store) InsertGeneration(ctx context.Context, rec *domain.GenerationRecord) (domain.GenerationID, error) {
	ref, _, err := s.generationsCol().Add(ctx, toDoc(rec))
	if err != nil {
		return "", fmt.Errorf("firestore InsertGeneration: %w", err)
	}
	return domain.GenerationID(ref.ID), nil
}

func (s *Store) GetGeneration(ctx context.Context, userID domain.UserID, id domain.GenerationID) (*domain.GenerationRecord, error) {
	snap, err := s.generationDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetGeneration: %w", err)
	}

	var doc generationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetGeneration decode: %w", err)
	}
	if doc.UserID != string(userID) {
		return nil, domain.ErrNotFound
	}
	return fromDoc(snap.Ref.ID, doc), nil
}

func (s *Store) ListGenerationsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.GenerationRecord, error) {
	q := s.generationsCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*domain.GenerationRecord{}
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore ListGenerationsByUser: %w", err)
		}

		var doc generationDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode generationDoc: %w", err)
		}
		out = append(out, fromDoc(snap.Ref.ID, doc))
	}
	return out, nil
}

func (s *Store) DeleteGeneration(ctx context.Context, userID domain.UserID, id domain.GenerationID) error {
	// ownership check first; a foreign record is reported as missing
	if _, err := s.GetGeneration(ctx, userID, id); err != nil {
		return err
	}
	if _, err := s.generationDoc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteGeneration: %w", err)
	}
	return nil
}
