package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/boundarycoach/boundary-api/internal/domain"
)

func TestFalGenerateSendsInputAndReadsURL(t *testing.T) {
	var got falInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fal-ai/flux/dev", r.URL.Path)
		assert.Equal(t, "Key secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images":[{"url":"https://cdn.fal/1.png","width":1024,"height":768}]}`))
	}))
	defer srv.Close()

	c, err := NewFalClient(FalConfig{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	url, err := c.Generate(context.Background(), "a calm turtle")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.fal/1.png", url)
	assert.Equal(t, falInput{
		Prompt:              "a calm turtle",
		ImageSize:           "landscape_4_3",
		NumInferenceSteps:   28,
		GuidanceScale:       3.5,
		NumImages:           1,
		EnableSafetyChecker: true,
		SafetyTolerance:     2,
	}, got)
}

func TestFalGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewFalClient(FalConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "x")

	require.ErrorIs(t, err, domain.ErrImageGeneration)
	assert.Contains(t, err.Error(), "429")
}

func TestNewFalClientRequiresKey(t *testing.T) {
	_, err := NewFalClient(FalConfig{})
	assert.Error(t, err)
}

func TestImageURLFromJSONShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nested data", `{"data":{"images":[{"url":"a"}]},"images":[{"url":"b"}]}`, "a"},
		{"images", `{"images":[{"url":"b"}]}`, "b"},
		{"data array", `{"data":[{"url":"c"}]}`, "c"},
		{"image object", `{"image":{"url":"d"}}`, "d"},
		{"direct", `{"url":"e"}`, "e"},
		{"output", `{"output":{"url":"f"}}`, "f"},
		{"result", `{"result":{"images":[{"url":"g"}]}}`, "g"},
		{"empty first shape falls through", `{"data":{"images":[{"url":""}]},"url":"h"}`, "h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageURLFromJSON([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImageURLFromJSONFailures(t *testing.T) {
	for _, body := range []string{`not json`, `{"images":[]}`, `{"url":42}`} {
		_, err := ImageURLFromJSON([]byte(body))
		assert.ErrorIs(t, err, domain.ErrImageGeneration, body)
	}
}

func TestImagenReference(t *testing.T) {
	ref, err := imageReference(&genai.GenerateImagesResponse{GeneratedImages: []*genai.GeneratedImage{
		{Image: &genai.Image{GCSURI: "gs://bucket/img.png"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "gs://bucket/img.png", ref)

	ref, err = imageReference(&genai.GenerateImagesResponse{GeneratedImages: []*genai.GeneratedImage{
		{Image: &genai.Image{ImageBytes: []byte{0x89, 0x50}, MIMEType: "image/png"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVA=", ref)

	_, err = imageReference(&genai.GenerateImagesResponse{})
	assert.ErrorIs(t, err, domain.ErrImageGeneration)
}
