package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/notesuggest/internal/config"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector
		expected float64
		delta    float64
	}{
		{"identical", Vector{1, 0, 0}, Vector{1, 0, 0}, 1.0, 0.001},
		{"orthogonal", Vector{1, 0, 0}, Vector{0, 1, 0}, 0.0, 0.001},
		{"opposite", Vector{1, 0, 0}, Vector{-1, 0, 0}, -1.0, 0.001},
		{"similar", Vector{1, 1, 0}, Vector{1, 0, 0}, 0.707, 0.01},
		{"empty", Vector{}, Vector{}, 0.0, 0.001},
		{"different lengths", Vector{1, 0}, Vector{1, 0, 0}, 0.0, 0.001},
		{"zero vector", Vector{0, 0, 0}, Vector{1, 0, 0}, 0.0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("CosineSimilarity(%v, %v) = %f, want %f (±%f)", tt.a, tt.b, got, tt.expected, tt.delta)
			}
		})
	}
}

func TestNew(t *testing.T) {
	e, err := New(config.EmbeddingConfig{})
	require.NoError(t, err)
	assert.Nil(t, e, "empty provider disables embeddings")

	e, err = New(config.EmbeddingConfig{Provider: "ollama"})
	require.NoError(t, err)
	assert.Equal(t, 768, e.Dims())

	e, err = New(config.EmbeddingConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.Equal(t, 1536, e.Dims())

	_, err = New(config.EmbeddingConfig{Provider: "bogus"})
	assert.Error(t, err)
}

func ollamaServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	vectors := map[string]Vector{
		"billing migration":     {1, 0, 0},
		"invoice provider":      {0.9, 0.1, 0},
		"classroom leaderboard": {0, 0, 1},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		v, ok := vectors[req.Prompt]
		if !ok {
			http.Error(w, "unknown prompt", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{Embedding: v})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaEmbedder(t *testing.T) {
	var calls atomic.Int32
	srv := ollamaServer(t, &calls)
	e := NewOllamaEmbedder(srv.URL, "nomic-embed-text")
	v, err := e.Embed(context.Background(), "billing migration")
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 0, 0}, v)

	_, err = e.Embed(context.Background(), "nope")
	assert.ErrorContains(t, err, "ollama error 500")
}

func TestSimilarity(t *testing.T) {
	var calls atomic.Int32
	srv := ollamaServer(t, &calls)
	s := NewSimilarity(NewOllamaEmbedder(srv.URL, "nomic-embed-text"))
	ctx := context.Background()

	got, err := s.Similarity(ctx, "billing migration", "invoice provider")
	require.NoError(t, err)
	assert.Greater(t, got, 0.9)

	got, err = s.Similarity(ctx, "billing migration", "classroom leaderboard")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-9)
	assert.Equal(t, int32(3), calls.Load(), "vectors are cached per text")

	_, err = s.Similarity(ctx, "billing migration", "unknown")
	assert.Error(t, err)
}
