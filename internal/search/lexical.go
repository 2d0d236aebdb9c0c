package search

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/analysis/token/lowercase"
	"github.com/blevesearch/bleve/analysis/tokenizer/whitespace"
)

const lexicalAnalyzer = "whitespace_lower"

// lexicalScores builds a throwaway in-memory index over the projected corpus
// and returns one term-frequency score per record. Records the query never
// touches score zero, so the caller sees a full-length score vector and
// normalization works over the whole distribution.
func lexicalScores(texts []string, query string) ([]float64, error) {
	scores := make([]float64, len(texts))
	if len(texts) == 0 {
		return scores, nil
	}

	m := bleve.NewIndexMapping()
	// Whitespace splitting only; the corpus is mixed-language and anything
	// smarter than lowercasing distorts exact name matching.
	err := m.AddCustomAnalyzer(lexicalAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     whitespace.Name,
		"token_filters": []interface{}{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("building analyzer: %w", err)
	}
	m.DefaultAnalyzer = lexicalAnalyzer

	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("building lexical index: %w", err)
	}
	defer idx.Close()

	for i, t := range texts {
		if err := idx.Index(strconv.Itoa(i), map[string]interface{}{"text": t}); err != nil {
			return nil, fmt.Errorf("indexing record %d: %w", i, err)
		}
	}

	q := bleve.NewMatchQuery(query)
	q.SetField("text")
	// Size covers the entire corpus: fusion needs every record's score, not
	// a top-candidate slice.
	req := bleve.NewSearchRequestOptions(q, len(texts), 0, false)
	res, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(scores) {
			continue
		}
		scores[i] = hit.Score
	}
	return scores, nil
}
