package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/boundarycoach/boundary-api/internal/adapters/auth"
	"github.com/boundarycoach/boundary-api/internal/adapters/imagegen"
	"github.com/boundarycoach/boundary-api/internal/adapters/llm"
	boltstore "github.com/boundarycoach/boundary-api/internal/adapters/storage/bolt"
	firestorestore "github.com/boundarycoach/boundary-api/internal/adapters/storage/firestore"
	memstore "github.com/boundarycoach/boundary-api/internal/adapters/storage/memory"
	sqlitestore "github.com/boundarycoach/boundary-api/internal/adapters/storage/sqlite"
	"github.com/boundarycoach/boundary-api/internal/app/generation"
	"github.com/boundarycoach/boundary-api/internal/app/imaging"
	"github.com/boundarycoach/boundary-api/internal/config"
	"github.com/boundarycoach/boundary-api/internal/domain"
)

// app holds the wired components; close releases storage handles.
type app struct {
	svc   *generation.Service
	auth  domain.Authenticator
	close func()
}

func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	text, err := buildTextGenerator(ctx, cfg.LLM, log)
	if err != nil {
		return nil, err
	}

	images, err := buildImageGenerator(ctx, cfg.Images, log)
	if err != nil {
		return nil, err
	}
	var batch generation.ImageBatch
	if images != nil {
		batch = imaging.NewOrchestrator(images, cfg.Images.Delay)
	}

	store, closer, err := buildStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	var authn domain.Authenticator
	switch cfg.Auth.Mode {
	case "token":
		log.Info("auth: static bearer tokens", zap.Int("tokens", len(cfg.Auth.Tokens)))
		authn = auth.NewTokenAuthenticator(cfg.Auth.Tokens)
	default:
		log.Warn("auth: trusting X-User-ID header, use only for local development")
		authn = auth.NewHeaderAuthenticator()
	}

	return &app{
		svc:  generation.NewService(text, batch, store),
		auth: authn,
		close: func() {
			if closer == nil {
				return
			}
			if err := closer.Close(); err != nil {
				log.Warn("closing store", zap.Error(err))
			}
		},
	}, nil
}

func buildTextGenerator(ctx context.Context, c config.LLMConfig, log *zap.Logger) (domain.TextGenerator, error) {
	switch c.Provider {
	case "vertex":
		log.Info("llm: vertex", zap.String("model", c.Model), zap.String("location", c.GCPLocation))
		return llm.NewVertexClient(ctx, llm.VertexConfig{
			Project:   c.GCPProject,
			Location:  c.GCPLocation,
			Model:     c.Model,
			MaxTokens: c.MaxTokens,
		})
	case "openai":
		log.Info("llm: openai", zap.String("model", c.Model))
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:    c.APIKey,
			BaseURL:   c.BaseURL,
			Model:     c.Model,
			MaxTokens: c.MaxTokens,
		})
	default:
		log.Info("llm: mock")
		return llm.NewMockLLM(), nil
	}
}

// buildImageGenerator returns nil for provider "none".
func buildImageGenerator(ctx context.Context, c config.ImagesConfig, log *zap.Logger) (domain.ImageGenerator, error) {
	switch c.Provider {
	case "fal":
		log.Info("images: fal", zap.String("model", c.Model), zap.Duration("delay", c.Delay))
		return imagegen.NewFalClient(imagegen.FalConfig{
			APIKey:    c.APIKey,
			BaseURL:   c.BaseURL,
			Model:     c.Model,
			ImageSize: c.ImageSize,
			Timeout:   c.Timeout,
		})
	case "imagen":
		log.Info("images: imagen", zap.String("model", c.Model))
		model := c.Model
		if model == config.Default().Images.Model {
			// the default names a fal model
			model = ""
		}
		return imagegen.NewImagenClient(ctx, imagegen.ImagenConfig{
			Project:  c.GCPProject,
			Location: c.GCPLocation,
			Model:    model,
		})
	case "none":
		log.Info("images: disabled")
		return nil, nil
	default:
		log.Info("images: mock")
		return imagegen.NewMockGenerator(), nil
	}
}

func buildStore(ctx context.Context, c config.StorageConfig, log *zap.Logger) (domain.GenerationStore, io.Closer, error) {
	switch c.Backend {
	case "firestore":
		log.Info("store: firestore", zap.String("project", c.GCPProject))
		s, err := firestorestore.NewStore(ctx, c.GCPProject)
		if err != nil {
			return nil, nil, fmt.Errorf("init firestore store: %w", err)
		}
		return s, s, nil
	case "sqlite":
		log.Info("store: sqlite", zap.String("path", c.Path))
		s, err := sqlitestore.NewStore(c.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite store: %w", err)
		}
		return s, s, nil
	case "bolt":
		log.Info("store: bolt", zap.String("path", c.Path))
		s, err := boltstore.NewStore(c.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init bolt store: %w", err)
		}
		return s, s, nil
	default:
		log.Info("store: in-memory")
		return memstore.NewGenerationStore(), nil, nil
	}
}
