package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

type ImagenConfig struct {
	Project     string
	Location    string
	Model       string
	AspectRatio string
}

// ImagenClient generates images with Imagen on Vertex AI.
type ImagenClient struct {
	client      *genai.Client
	model       string
	aspectRatio string
}

func NewImagenClient(ctx context.Context, cfg ImagenConfig) (*ImagenClient, error) {
	if cfg.Project == "" || cfg.Location == "" {
		return nil, fmt.Errorf("imagen project and location must be set")
	}
	model := cfg.Model
	if model == "" {
		model = "imagen-3.0-generate-002"
	}
	aspect := cfg.AspectRatio
	if aspect == "" {
		aspect = "4:3"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}
	return &ImagenClient{client: client, model: model, aspectRatio: aspect}, nil
}

// Generate implements domain.ImageGenerator. Images stored in GCS are
// returned by URI, inline images as a data URI.
func (c *ImagenClient) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateImages(ctx, c.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    c.aspectRatio,
	})
	if err != nil {
		return "", fmt.Errorf("%w: imagen: %w", domain.ErrImageGeneration, err)
	}
	return imageReference(res)
}

func imageReference(res *genai.GenerateImagesResponse) (string, error) {
	if res != nil {
		for _, gi := range res.GeneratedImages {
			if gi == nil || gi.Image == nil {
				continue
			}
			if gi.Image.GCSURI != "" {
				return gi.Image.GCSURI, nil
			}
			if len(gi.Image.ImageBytes) > 0 {
				mime := gi.Image.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(gi.Image.ImageBytes), nil
			}
		}
	}
	return "", fmt.Errorf("%w: imagen returned no image", domain.ErrImageGeneration)
}
