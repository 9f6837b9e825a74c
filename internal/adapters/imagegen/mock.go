package imagegen

import (
	"context"
	"net/url"
)

// MockGenerator returns a deterministic placeholder image per prompt.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "https://placehold.co/800x600?text=" + url.QueryEscape(prompt), nil
}
