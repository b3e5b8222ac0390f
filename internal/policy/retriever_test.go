package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDoc = `# Company Rental Policies

## Booking Policy
All reservations start as pending.

## Cancellation Policy
Bookings can be cancelled free of charge.

## Fuel Policy
Vehicles are supplied with a full tank.
`

// fakeEmbedder maps known phrases to fixed unit vectors so similarity
// ranking is deterministic, and counts calls for cache assertions.
type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Generate(_ context.Context, text string) ([]float64, error) {
	f.calls++
	switch {
	case strings.Contains(text, "Booking Policy") || strings.Contains(text, "reserve"):
		return []float64{1, 0, 0}, nil
	case strings.Contains(text, "Cancellation Policy") || strings.Contains(text, "cancel"):
		return []float64{0, 1, 0}, nil
	case strings.Contains(text, "Fuel Policy") || strings.Contains(text, "fuel"):
		return []float64{0, 0, 1}, nil
	default:
		return []float64{0.5, 0.5, 0.5}, nil
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Generate(context.Context, string) ([]float64, error) {
	return nil, fmt.Errorf("embedding backend unreachable")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTestDoc(t *testing.T) (docPath, vectorsPath string) {
	t.Helper()
	dir := t.TempDir()
	docPath = filepath.Join(dir, "company_rules.md")
	vectorsPath = filepath.Join(dir, "vectors.json")
	if err := os.WriteFile(docPath, []byte(testDoc), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return docPath, vectorsPath
}

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "preamble and headings",
			text: "intro\n## A\na body\n## B\nb body",
			want: []string{"intro", "\n## A\na body", "\n## B\nb body"},
		},
		{
			name: "no headings",
			text: "just text",
			want: []string{"just text"},
		},
		{
			name: "whitespace preamble dropped",
			text: "\n\n## A\nbody",
			want: []string{"\n## A\nbody"},
		},
		{
			name: "empty document",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSections(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSections() = %d sections %q, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("section %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitSections_WhitespacePreambleKeepsSplit(t *testing.T) {
	// A whitespace-only preamble must not swallow the first heading.
	got := SplitSections("\n## Only\nbody")
	if len(got) != 1 || !strings.Contains(got[0], "## Only") {
		t.Errorf("SplitSections() = %q", got)
	}
}

func TestNewRetriever_GeneratesAndCaches(t *testing.T) {
	docPath, vectorsPath := writeTestDoc(t)
	emb := &fakeEmbedder{}

	r, err := NewRetriever(context.Background(), docPath, vectorsPath, emb, testLogger())
	if err != nil {
		t.Fatalf("NewRetriever() error: %v", err)
	}
	if len(r.docs) != 4 {
		t.Fatalf("sections = %d, want 4 (title + three policies)", len(r.docs))
	}
	if emb.calls != 4 {
		t.Errorf("embedding calls = %d, want 4", emb.calls)
	}

	// A second retriever reuses the cached vectors.
	emb2 := &fakeEmbedder{}
	if _, err := NewRetriever(context.Background(), docPath, vectorsPath, emb2, testLogger()); err != nil {
		t.Fatalf("second NewRetriever() error: %v", err)
	}
	if emb2.calls != 0 {
		t.Errorf("embedding calls with warm cache = %d, want 0", emb2.calls)
	}
}

func TestNewRetriever_RegeneratesOnStaleCache(t *testing.T) {
	docPath, vectorsPath := writeTestDoc(t)

	// A cache with the wrong section count is regenerated.
	stale, _ := json.Marshal([][]float64{{1, 0, 0}})
	if err := os.WriteFile(vectorsPath, stale, 0o644); err != nil {
		t.Fatalf("write stale cache: %v", err)
	}

	emb := &fakeEmbedder{}
	if _, err := NewRetriever(context.Background(), docPath, vectorsPath, emb, testLogger()); err != nil {
		t.Fatalf("NewRetriever() error: %v", err)
	}
	if emb.calls != 4 {
		t.Errorf("embedding calls = %d, want regeneration of all 4", emb.calls)
	}
}

func TestNewRetriever_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	_, err := NewRetriever(context.Background(),
		filepath.Join(dir, "nope.md"), filepath.Join(dir, "vectors.json"),
		&fakeEmbedder{}, testLogger())
	if err == nil {
		t.Fatal("NewRetriever() expected error for missing document")
	}
}

func TestNewRetriever_EmbedderFailure(t *testing.T) {
	docPath, vectorsPath := writeTestDoc(t)
	_, err := NewRetriever(context.Background(), docPath, vectorsPath, failingEmbedder{}, testLogger())
	if err == nil {
		t.Fatal("NewRetriever() expected error when embedding fails")
	}
}

func TestQuery_ReturnsMostRelevantSections(t *testing.T) {
	docPath, vectorsPath := writeTestDoc(t)
	emb := &fakeEmbedder{}

	r, err := NewRetriever(context.Background(), docPath, vectorsPath, emb, testLogger())
	if err != nil {
		t.Fatalf("NewRetriever() error: %v", err)
	}

	got, err := r.Query(context.Background(), "can I cancel my booking?", 1)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if !strings.Contains(got, "Cancellation Policy") {
		t.Errorf("Query() = %q, want the cancellation section", got)
	}
	if strings.Contains(got, "Fuel Policy") {
		t.Errorf("Query() leaked an unrelated section: %q", got)
	}
}

func TestQuery_JoinsTopK(t *testing.T) {
	docPath, vectorsPath := writeTestDoc(t)
	r, err := NewRetriever(context.Background(), docPath, vectorsPath, &fakeEmbedder{}, testLogger())
	if err != nil {
		t.Fatalf("NewRetriever() error: %v", err)
	}

	got, err := r.Query(context.Background(), "fuel rules", 2)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if !strings.Contains(got, "Fuel Policy") {
		t.Errorf("Query() = %q, want the fuel section first", got)
	}
	if parts := strings.Split(got, "\n\n"); len(parts) < 2 {
		t.Errorf("Query() with k=2 returned %d sections", len(parts))
	}
}
