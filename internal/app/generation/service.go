package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/boundarycoach/boundary-api/internal/app/boundary"
	"github.com/boundarycoach/boundary-api/internal/domain"
	"github.com/boundarycoach/boundary-api/internal/observability"
)

// ImageBatch generates one image reference per prompt; see imaging.Orchestrator.
type ImageBatch interface {
	GenerateAll(ctx context.Context, prompts []string) ([]string, error)
}

type Service struct {
	text   domain.TextGenerator
	images ImageBatch
	store  domain.GenerationStore
	now    func() time.Time
}

func NewService(
	text domain.TextGenerator,
	images ImageBatch,
	store domain.GenerationStore,
) *Service {
	return &Service{
		text:   text,
		images: images,
		store:  store,
		now:    time.Now,
	}
}

type GenerateInput struct {
	Situation string
	// User is nil when the caller is not signed in.
	User *domain.User
}

type GenerateOutput struct {
	Record *domain.GenerationRecord
	// Saved is false when persistence failed; Record.ID is then empty.
	Saved bool
}

// Generate runs one situation through the whole pipeline. Only an empty
// situation, a missing user, or a failed text generation fail the call;
// image and persistence failures degrade the record instead.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	situation := strings.TrimSpace(in.Situation)
	if situation == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.User == nil || in.User.ID == "" {
		return nil, domain.ErrUnauthorized
	}

	log := observability.LoggerFromContext(ctx).With(
		zap.String("user_id", string(in.User.ID)),
	)
	log.Info("starting boundary generation",
		zap.String("situation", observability.Truncate(situation, 100)))

	start := s.now()
	completion, err := s.text.Complete(ctx, boundary.CoachPrompt, boundary.UserMessage(situation))
	if err != nil {
		log.Error("text generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	log.Info("text generation completed",
		zap.Int("length", len(completion)),
		zap.Duration("elapsed", s.now().Sub(start)))

	ex := boundary.Extract(completion)
	log.Info("parsed boundary response",
		zap.String("pass", string(ex.Pass)),
		zap.Bool("quick_take", ex.QuickTake.Validation != ""),
		zap.Bools("levels_matched", ex.Matched[:]))

	prompts := boundary.ExtractPrompts(completion)
	urls := s.generateImages(ctx, log, prompts)

	lighteners := make([]domain.VisualMoodLightener, len(prompts))
	for i, p := range prompts {
		lighteners[i] = domain.VisualMoodLightener{Prompt: p}
		if i < len(urls) {
			lighteners[i].ImageURL = urls[i]
		}
	}

	rec := &domain.GenerationRecord{
		UserID:         in.User.ID,
		SituationInput: situation,
		Response: domain.BoundaryResponse{
			QuickTake:            ex.QuickTake,
			Options:              ex.Options,
			VisualMoodLighteners: lighteners,
		},
		CreatedAt: s.now(),
	}

	out := &GenerateOutput{Record: rec}
	if s.store == nil {
		log.Warn("no generation store configured, record not saved")
		return out, nil
	}

	// a request that timed out during image generation still keeps its record
	id, err := s.store.InsertGeneration(context.WithoutCancel(ctx), rec)
	if err != nil {
		log.Error("failed to save generation", zap.Error(err))
		rec.ID = ""
		return out, nil
	}
	rec.ID = id
	out.Saved = true

	log.Info("boundary generation completed", zap.String("generation_id", string(id)))
	return out, nil
}

// generateImages never fails: a batch error or panic yields one empty
// reference per prompt.
func (s *Service) generateImages(ctx context.Context, log *zap.Logger, prompts []string) (urls []string) {
	empty := make([]string, len(prompts))
	if s.images == nil {
		return empty
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("image generation panicked, continuing without images", zap.Any("panic", r))
			urls = empty
		}
	}()

	urls, err := s.images.GenerateAll(ctx, prompts)
	if err != nil {
		log.Error("image generation failed, continuing without images", zap.Error(err))
		return empty
	}
	return urls
}

// ListGenerations returns the user's records, newest first. query, when set,
// keeps only records whose situation contains it (case-insensitive).
func (s *Service) ListGenerations(
	ctx context.Context,
	userID domain.UserID,
	limit int,
	query string,
) ([]*domain.GenerationRecord, error) {

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if limit <= 0 {
		limit = 20
	}

	log := observability.LoggerFromContext(ctx).With(
		zap.String("user_id", string(userID)),
		zap.Int("limit", limit),
	)

	fetch := limit
	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		// filter after loading, so read the whole history
		fetch = 0
	}

	recs, err := s.store.ListGenerationsByUser(ctx, userID, fetch)
	if err != nil {
		log.Error("failed to list generations", zap.Error(err))
		return nil, err
	}

	if query != "" {
		filtered := recs[:0:0]
		for _, r := range recs {
			if strings.Contains(strings.ToLower(r.SituationInput), query) {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
		if len(recs) > limit {
			recs = recs[:limit]
		}
	}

	log.Info("listed generations", zap.Int("count", len(recs)))
	return recs, nil
}

func (s *Service) GetGeneration(ctx context.Context, userID domain.UserID, id domain.GenerationID) (*domain.GenerationRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	rec, err := s.store.GetGeneration(ctx, userID, id)
	if err != nil {
		observability.LoggerFromContext(ctx).Info("failed to get generation",
			zap.String("generation_id", string(id)),
			zap.Error(err))
		return nil, err
	}
	return rec, nil
}

func (s *Service) DeleteGeneration(ctx context.Context, userID domain.UserID, id domain.GenerationID) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	log := observability.LoggerFromContext(ctx).With(
		zap.String("user_id", string(userID)),
		zap.String("generation_id", string(id)),
	)
	if err := s.store.DeleteGeneration(ctx, userID, id); err != nil {
		log.Error("failed to delete generation", zap.Error(err))
		return err
	}
	log.Info("generation deleted")
	return nil
}
