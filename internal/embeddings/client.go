// Package embeddings provides a client for generating text embeddings
// via an Ollama-compatible API, plus similarity helpers.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/httpkit"
)

// maxInputChars bounds the text sent per embedding request.
const maxInputChars = 2000

// Client generates embeddings using an Ollama-compatible endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates an embeddings client for the given base URL
// (e.g. "http://localhost:11434") and model name.
func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: httpkit.NewClient(
			httpkit.WithTimeout(60 * time.Second),
		),
	}
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Generate returns the embedding vector for the given text. Input
// longer than the per-request bound is truncated.
func (c *Client) Generate(ctx context.Context, text string) ([]float64, error) {
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	body, err := json.Marshal(embeddingRequest{Model: c.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer httpkit.DrainAndClose(resp.Body, 4096)

	if resp.StatusCode != http.StatusOK {
		msg := httpkit.ReadErrorBody(resp.Body, 1024)
		return nil, fmt.Errorf("embedding request returned status %d: %s", resp.StatusCode, msg)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response contained no vector")
	}
	return parsed.Embedding, nil
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Returns 0 for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scored pairs a document index with its similarity score.
type Scored struct {
	Index int
	Score float64
}

// TopK returns the indices of the k vectors most similar to query,
// best first.
func TopK(query []float64, vectors [][]float64, k int) []Scored {
	scored := make([]Scored, 0, len(vectors))
	for i, v := range vectors {
		scored = append(scored, Scored{Index: i, Score: CosineSimilarity(query, v)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
