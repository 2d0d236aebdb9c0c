// Package search implements the hybrid retrieval engine: dense and sparse
// scoring over the full record set, min-max normalized linear fusion,
// threshold filtering and top-k selection.
package search

import (
	"context"
	"log"
	"math"
	"os"

	"github.com/google/uuid"

	"github.com/hyunjin-oh/coursechat/config"
	"github.com/hyunjin-oh/coursechat/internal/history"
	"github.com/hyunjin-oh/coursechat/internal/store"
	"github.com/hyunjin-oh/coursechat/models"
	"github.com/hyunjin-oh/coursechat/provider"
)

// scoreThreshold is the relevance bar fused scores must clear. Fixed, not a
// per-call knob.
const scoreThreshold = 0.5

// Engine orchestrates a search call end to end. Dataset and vector index are
// re-read per invocation; loader funcs are swappable for tests.
type Engine struct {
	cfg      config.SearchConfig
	provider provider.Provider
	history  history.Store
	logger   *log.Logger

	loadDataset func() (*store.Store, error)
	loadVectors func() (*VectorIndex, error)
}

func NewEngine(cfg config.SearchConfig, datasetPath string, p provider.Provider, hist history.Store) *Engine {
	return &Engine{
		cfg:         cfg,
		provider:    p,
		history:     hist,
		logger:      log.New(os.Stderr, "[SEARCH] ", log.LstdFlags),
		loadDataset: func() (*store.Store, error) { return store.Load(datasetPath) },
		loadVectors: func() (*VectorIndex, error) { return LoadVectorIndex(cfg.VectorIndexPath) },
	}
}

// Search runs the hybrid pipeline. Every internal failure is absorbed: the
// caller sees an empty slice, never an error, and nothing is appended to
// history on failure. An empty result is a valid outcome meaning no record
// cleared the relevance bar.
func (e *Engine) Search(ctx context.Context, query string, topK int) []models.SearchResult {
	if topK <= 0 {
		topK = e.cfg.TopK
	}

	ds, err := e.loadDataset()
	if err != nil {
		e.logger.Printf("dataset load failed, aborting search: %v", err)
		return nil
	}
	if ds.Len() == 0 {
		e.logger.Printf("dataset is empty")
		return nil
	}

	// Direct match takes precedence over any ranked retrieval.
	if rec, ok := ds.FindCourse(query); ok {
		rec.Overview = models.TruncateOverview(rec.Overview)
		result := models.SearchResult{CourseRecord: rec, Rank: 1}
		e.persist(query, []models.SearchResult{result})
		return []models.SearchResult{result}
	}

	qt := ClassifyQuery(query)
	texts := make([]string, ds.Len())
	for i, rec := range ds.Records() {
		texts[i] = ProjectionText(rec, qt)
	}

	sparse, err := lexicalScores(texts, query)
	if err != nil {
		e.logger.Printf("lexical retrieval failed: %v", err)
		return nil
	}

	dense, ok := e.denseScores(ctx, query, ds.Len())
	if !ok {
		return nil
	}

	combined := Fuse(dense, sparse, e.cfg.SparseWeight)

	var results []models.SearchResult
	for _, i := range Rank(combined) {
		if combined[i] < scoreThreshold || len(results) >= topK {
			continue
		}
		rec := ds.Records()[i]
		rec.Overview = models.TruncateOverview(rec.Overview)
		score := math.Round(combined[i]*10000) / 10000
		results = append(results, models.SearchResult{
			CourseRecord:   rec,
			RelevanceScore: &score,
			Rank:           len(results) + 1,
		})
	}

	if len(results) > 0 {
		e.persist(query, results)
	}
	return results
}

// denseScores loads the vector index and scores the embedded query against
// every record. Any failure, including a record-count mismatch with the
// dataset, makes the whole search come back empty.
func (e *Engine) denseScores(ctx context.Context, query string, recordCount int) ([]float64, bool) {
	ix, err := e.loadVectors()
	if err != nil {
		e.logger.Printf("vector index load failed: %v", err)
		return nil, false
	}
	if ix.Len() != recordCount {
		// An index built against a different dataset revision would score
		// the wrong rows silently.
		e.logger.Printf("vector index has %d rows, dataset has %d; refusing to search", ix.Len(), recordCount)
		return nil, false
	}
	vecs, err := e.provider.CreateEmbedding(ctx, []string{query})
	if err != nil || len(vecs) != 1 {
		e.logger.Printf("query embedding failed: %v", err)
		return nil, false
	}
	return ix.Scores(NormalizeQuery(vecs[0])), true
}

func (e *Engine) persist(query string, results []models.SearchResult) {
	entry := models.SearchHistoryEntry{
		ID:      uuid.NewString(),
		Query:   query,
		Results: results,
	}
	if err := e.history.AppendSearchEntry(entry); err != nil {
		e.logger.Printf("recording search history: %v", err)
	}
}
