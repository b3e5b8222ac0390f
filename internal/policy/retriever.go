// Package policy retrieves company policy sections relevant to a query
// using embedding similarity over the policy document.
package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/embeddings"
)

// Embedder generates an embedding vector for a piece of text.
type Embedder interface {
	Generate(ctx context.Context, text string) ([]float64, error)
}

// Retriever answers policy queries against the sections of a Markdown
// policy document. Section vectors are computed once and cached on
// disk, so restarts do not re-embed an unchanged document.
type Retriever struct {
	docs    []string
	vectors [][]float64
	emb     Embedder
	logger  *slog.Logger
}

// SplitSections splits a Markdown document into sections, cutting
// before every second-level heading. The preamble before the first
// heading is its own section. Whitespace-only sections are dropped.
func SplitSections(text string) []string {
	var docs []string
	start := 0
	for i := 0; ; {
		idx := strings.Index(text[i:], "\n##")
		if idx < 0 {
			break
		}
		pos := i + idx
		if piece := text[start:pos]; strings.TrimSpace(piece) != "" {
			docs = append(docs, piece)
		}
		start = pos
		i = pos + 1
	}
	if piece := text[start:]; strings.TrimSpace(piece) != "" {
		docs = append(docs, piece)
	}
	return docs
}

// NewRetriever loads the policy document at docPath, splits it into
// sections, and ensures a section vector exists for each. Vectors are
// read from vectorsPath when present and valid, otherwise generated
// with emb and written back.
func NewRetriever(ctx context.Context, docPath, vectorsPath string, emb Embedder, logger *slog.Logger) (*Retriever, error) {
	raw, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("read policy document: %w", err)
	}
	docs := SplitSections(string(raw))
	if len(docs) == 0 {
		return nil, fmt.Errorf("policy document %s has no sections", docPath)
	}

	vectors, err := loadVectors(vectorsPath, len(docs))
	if err != nil {
		logger.Info("generating policy section vectors", "sections", len(docs), "reason", err)
		vectors, err = generateVectors(ctx, docs, emb)
		if err != nil {
			return nil, err
		}
		if err := saveVectors(vectorsPath, vectors); err != nil {
			logger.Warn("failed to cache policy vectors", "path", vectorsPath, "error", err)
		}
	}

	return &Retriever{docs: docs, vectors: vectors, emb: emb, logger: logger}, nil
}

func loadVectors(path string, want int) ([][]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vectors [][]float64
	if err := json.Unmarshal(raw, &vectors); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(vectors) != want {
		return nil, fmt.Errorf("%s has %d vectors, want %d", path, len(vectors), want)
	}
	return vectors, nil
}

func saveVectors(path string, vectors [][]float64) error {
	raw, err := json.Marshal(vectors)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func generateVectors(ctx context.Context, docs []string, emb Embedder) ([][]float64, error) {
	vectors := make([][]float64, 0, len(docs))
	for i, doc := range docs {
		v, err := emb.Generate(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("embed policy section %d: %w", i, err)
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// Query returns the k policy sections most relevant to the query,
// joined by blank lines.
func (r *Retriever) Query(ctx context.Context, query string, k int) (string, error) {
	qv, err := r.emb.Generate(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed policy query: %w", err)
	}
	var parts []string
	for _, s := range embeddings.TopK(qv, r.vectors, k) {
		parts = append(parts, r.docs[s.Index])
	}
	return strings.Join(parts, "\n\n"), nil
}
