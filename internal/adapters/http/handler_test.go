package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/boundarycoach/boundary-api/internal/adapters/http"
	"github.com/boundarycoach/boundary-api/internal/adapters/auth"
	"github.com/boundarycoach/boundary-api/internal/adapters/imagegen"
	"github.com/boundarycoach/boundary-api/internal/adapters/llm"
	"github.com/boundarycoach/boundary-api/internal/adapters/storage/memory"
	"github.com/boundarycoach/boundary-api/internal/app/generation"
	"github.com/boundarycoach/boundary-api/internal/app/imaging"
	"github.com/boundarycoach/boundary-api/internal/domain"
)

type failingText struct{}

func (failingText) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("upstream 529")
}

func newTestServer(t *testing.T, text domain.TextGenerator) http.Handler {
	t.Helper()

	if text == nil {
		text = llm.NewMockLLM()
	}
	images := imaging.NewOrchestrator(imagegen.NewMockGenerator(), 0)
	svc := generation.NewService(text, images, memory.NewGenerationStore())
	authn := auth.NewTokenAuthenticator(map[string]string{"alice-token": "alice", "bob-token": "bob"})

	return httpadapter.NewServer(svc, authn, httpadapter.Options{MaxSituationLength: 40})
}

func do(t *testing.T, srv http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

type generateBody struct {
	Success bool `json:"success"`
	Data    struct {
		ID        *string                 `json:"id"`
		UserInput string                  `json:"user_input"`
		Response  domain.BoundaryResponse `json:"response"`
	} `json:"data"`
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestGenerateAndHistory(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodPost, "/generations", "alice-token", `{"user_input":"roommate eats my food"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body generateBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Data.ID)
	assert.Equal(t, "roommate eats my food", body.Data.UserInput)
	assert.Equal(t, domain.LevelSoft, body.Data.Response.Options[0].Level)
	require.Len(t, body.Data.Response.VisualMoodLighteners, 3)
	assert.NotEmpty(t, body.Data.Response.VisualMoodLighteners[0].ImageURL)

	id := *body.Data.ID

	w = do(t, srv, http.MethodGet, "/generations?limit=5&q=ROOMMATE", "alice-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = do(t, srv, http.MethodGet, "/generations/"+id+"?format=markdown", "alice-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "## Quick Take")

	w = do(t, srv, http.MethodGet, "/generations/"+id+"?format=html", "alice-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h3>🔴 The Wall (Non-Negotiable)</h3>")

	w = do(t, srv, http.MethodGet, "/generations/"+id, "bob-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodDelete, "/generations/"+id, "alice-token", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/generations/"+id, "alice-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateAcceptsCamelCaseField(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodPost, "/generations", "alice-token", `{"userInput":"late night calls"}`)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		text   domain.TextGenerator
		token  string
		body   string
		status int
		errMsg string
	}{
		{"bad json", nil, "alice-token", `{`, http.StatusBadRequest, "invalid JSON body"},
		{"empty input", nil, "alice-token", `{"user_input":"   "}`, http.StatusBadRequest, "User input is required"},
		{"too long", nil, "alice-token", `{"user_input":"` + strings.Repeat("a", 41) + `"}`, http.StatusBadRequest, "at most 40 characters"},
		{"no token", nil, "", `{"user_input":"x"}`, http.StatusUnauthorized, "Unauthorized"},
		{"unknown token", nil, "nope", `{"user_input":"x"}`, http.StatusUnauthorized, "Unauthorized"},
		{"empty input before auth", nil, "", `{"user_input":""}`, http.StatusBadRequest, "User input is required"},
		{"text generation fails", failingText{}, "alice-token", `{"user_input":"x"}`, http.StatusInternalServerError, "Failed to generate boundary response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.text)

			w := do(t, srv, http.MethodPost, "/generations", tt.token, tt.body)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.errMsg)
		})
	}
}

func TestRoutingErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodPut, "/generations", "alice-token", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/generations?limit=-1", "alice-token", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/generations/x?format=pdf", "alice-token", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/generations/a/b", "alice-token", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/generations", "", "").Code)

	req := httptest.NewRequest(http.MethodOptions, "/generations", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
