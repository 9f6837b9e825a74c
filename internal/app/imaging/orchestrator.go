package imaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/boundarycoach/boundary-api/internal/domain"
	"github.com/boundarycoach/boundary-api/internal/observability"
)

// DefaultDelay is the pause between two provider calls.
const DefaultDelay = time.Second

// Orchestrator generates one image per prompt, one call at a time.
type Orchestrator struct {
	gen   domain.ImageGenerator
	delay time.Duration
	wait  func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator builds an Orchestrator that pauses delay between calls.
func NewOrchestrator(gen domain.ImageGenerator, delay time.Duration) *Orchestrator {
	if delay < 0 {
		delay = 0
	}
	return &Orchestrator{
		gen:   gen,
		delay: delay,
		wait:  sleepContext,
	}
}

// GenerateAll returns one image reference per prompt, in prompt order. A
// failed prompt leaves an empty string at its position and the batch goes
// on. An error is returned only when the batch as a whole cannot run, e.g.
// the context is done.
func (o *Orchestrator) GenerateAll(ctx context.Context, prompts []string) ([]string, error) {
	if o == nil || o.gen == nil {
		return nil, errors.New("no image generator configured")
	}

	log := observability.LoggerFromContext(ctx)
	log.Info("image batch started", zap.Int("prompts", len(prompts)))

	results := make([]string, len(prompts))
	succeeded := 0

	for i, prompt := range prompts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("image batch interrupted at %d/%d: %w", i+1, len(prompts), err)
		}

		start := time.Now()
		url, err := o.generateOne(ctx, prompt)
		if err != nil {
			log.Warn("image generation failed",
				zap.Int("index", i+1),
				zap.Int("total", len(prompts)),
				zap.Error(err))
		} else {
			results[i] = url
			succeeded++
			log.Info("image generated",
				zap.Int("index", i+1),
				zap.Duration("elapsed", time.Since(start)))
		}

		if i < len(prompts)-1 && o.delay > 0 {
			if err := o.wait(ctx, o.delay); err != nil {
				return nil, fmt.Errorf("image batch interrupted after %d/%d: %w", i+1, len(prompts), err)
			}
		}
	}

	log.Info("image batch completed",
		zap.Int("succeeded", succeeded),
		zap.Int("total", len(prompts)))
	return results, nil
}

func (o *Orchestrator) generateOne(ctx context.Context, prompt string) (string, error) {
	url, err := o.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", fmt.Errorf("%w: provider returned no image reference", domain.ErrImageGeneration)
	}
	return url, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
