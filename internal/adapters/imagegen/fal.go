package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

// imageURLPaths are tried in order; the first non-empty string wins.
var imageURLPaths = []string{
	"data.images.0.url",
	"images.0.url",
	"data.0.url",
	"image.url",
	"url",
	"output.url",
	"result.images.0.url",
}

type FalConfig struct {
	APIKey    string
	BaseURL   string // defaults to https://fal.run
	Model     string // defaults to fal-ai/flux/dev
	ImageSize string // defaults to landscape_4_3
	Timeout   time.Duration
}

// FalClient generates images through fal.ai's synchronous endpoint.
type FalClient struct {
	cfg  FalConfig
	http *http.Client
}

type falInput struct {
	Prompt              string  `json:"prompt"`
	ImageSize           string  `json:"image_size"`
	NumInferenceSteps   int     `json:"num_inference_steps"`
	GuidanceScale       float64 `json:"guidance_scale"`
	NumImages           int     `json:"num_images"`
	EnableSafetyChecker bool    `json:"enable_safety_checker"`
	SafetyTolerance     int     `json:"safety_tolerance"`
}

func NewFalClient(cfg FalConfig) (*FalClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("fal api key missing")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://fal.run"
	}
	if cfg.Model == "" {
		cfg.Model = "fal-ai/flux/dev"
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = "landscape_4_3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &FalClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Generate implements domain.ImageGenerator.
func (c *FalClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(falInput{
		Prompt:              prompt,
		ImageSize:           c.cfg.ImageSize,
		NumInferenceSteps:   28,
		GuidanceScale:       3.5,
		NumImages:           1,
		EnableSafetyChecker: true,
		SafetyTolerance:     2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", domain.ErrImageGeneration, err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(c.cfg.Model, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", domain.ErrImageGeneration, err)
	}
	req.Header.Set("Authorization", "Key "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrImageGeneration, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrImageGeneration, err)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: fal returned %d: %s", domain.ErrImageGeneration, resp.StatusCode, snippet(raw))
	}

	return ImageURLFromJSON(raw)
}

// ImageURLFromJSON finds the image reference in a provider response that
// may come in any of the known shapes.
func ImageURLFromJSON(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("%w: invalid response format", domain.ErrImageGeneration)
	}
	for _, path := range imageURLPaths {
		if v := gjson.GetBytes(raw, path); v.Type == gjson.String && v.Str != "" {
			return v.Str, nil
		}
	}

	var keys []string
	gjson.ParseBytes(raw).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return "", fmt.Errorf("%w: no image url in response (keys: %s)", domain.ErrImageGeneration, strings.Join(keys, ", "))
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
