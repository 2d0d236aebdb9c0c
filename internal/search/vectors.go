package search

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/hyunjin-oh/coursechat/provider"
)

// VectorIndex is the precomputed embedding artifact. Vectors are keyed by
// record order: row i embeds the projection of dataset row i.
type VectorIndex struct {
	Model     string      `json:"model"`
	Dimension int         `json:"dimension"`
	Vectors   [][]float32 `json:"vectors"`
}

// LoadVectorIndex reads the on-disk index and L2-normalizes every row so
// query-time similarity is a plain inner product.
func LoadVectorIndex(path string) (*VectorIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vector index: %w", err)
	}
	var ix VectorIndex
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("parsing vector index: %w", err)
	}
	for _, v := range ix.Vectors {
		normalizeL2(v)
	}
	return &ix, nil
}

func (ix *VectorIndex) Len() int { return len(ix.Vectors) }

// Scores embeds nothing itself; it scores an already-normalized query vector
// against every record by inner product (cosine similarity). Full scan, no
// truncation.
func (ix *VectorIndex) Scores(query []float32) []float64 {
	out := make([]float64, len(ix.Vectors))
	for i, v := range ix.Vectors {
		out[i] = dot(query, v)
	}
	return out
}

// BuildVectorIndex embeds every projection text through the provider and
// assembles the index in record order.
func BuildVectorIndex(ctx context.Context, p provider.Provider, model string, texts []string) (*VectorIndex, error) {
	ix := &VectorIndex{Model: model, Vectors: make([][]float32, 0, len(texts))}
	// Batch to keep individual requests bounded.
	const batch = 64
	for start := 0; start < len(texts); start += batch {
		end := start + batch
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := p.CreateEmbedding(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding records %d-%d: %w", start, end-1, err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("embedding count mismatch: asked %d, got %d", end-start, len(vecs))
		}
		ix.Vectors = append(ix.Vectors, vecs...)
	}
	if len(ix.Vectors) > 0 {
		ix.Dimension = len(ix.Vectors[0])
	}
	return ix, nil
}

// Save writes the index atomically next to its final path.
func (ix *VectorIndex) Save(path string) error {
	data, err := json.Marshal(ix)
	if err != nil {
		return fmt.Errorf("encoding vector index: %w", err)
	}
	tmp := filepath.Join(filepath.Dir(path), ".vectors.tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing vector index: %w", err)
	}
	return os.Rename(tmp, path)
}

// NormalizeQuery L2-normalizes a query embedding in place and returns it.
func NormalizeQuery(v []float32) []float32 {
	normalizeL2(v)
	return v
}

func normalizeL2(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	n := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= n
	}
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var out float64
	for i := 0; i < n; i++ {
		out += float64(a[i]) * float64(b[i])
	}
	return out
}
