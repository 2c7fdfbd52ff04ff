package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"
)

// Match is a recalled exchange.
type Match struct {
	Question string
	Answer   string
	Score    float64
}

// RecallIndex is a full-text index over past exchanges.
type RecallIndex struct {
	index bleve.Index
	path  string
}

// OpenRecall opens or creates the index at path. An empty path keeps the
// index in memory. A corrupted index is deleted and recreated.
func OpenRecall(path string) (*RecallIndex, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(buildRecallMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create recall index: %w", err)
		}
		return &RecallIndex{index: idx}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildRecallMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create recall index: %w", err)
		}
		log.Println("📚 recall index created")
	} else if err != nil {
		log.Printf("⚠️  recall index appears corrupted (error: %v), recreating...", err)
		if idx != nil {
			idx.Close()
		}
		if err := os.RemoveAll(path); err != nil {
			return nil, fmt.Errorf("failed to remove corrupted recall index: %w", err)
		}
		idx, err = bleve.New(path, buildRecallMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate recall index: %w", err)
		}
	}
	return &RecallIndex{index: idx, path: path}, nil
}

func buildRecallMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	exchange := bleve.NewDocumentMapping()

	text := func() *mapping.FieldMapping {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = standard.Name
		f.Store = true
		f.Index = true
		return f
	}
	exchange.AddFieldMappingsAt("question", text())
	exchange.AddFieldMappingsAt("answer", text())

	sessionField := bleve.NewTextFieldMapping()
	sessionField.Analyzer = keyword.Name
	sessionField.Store = true
	sessionField.IncludeInAll = false
	exchange.AddFieldMappingsAt("session_id", sessionField)

	created := bleve.NewDateTimeFieldMapping()
	created.IncludeInAll = false
	exchange.AddFieldMappingsAt("created_at", created)

	indexMapping.DefaultMapping = exchange
	return indexMapping
}

// Index adds one exchange.
func (r *RecallIndex) Index(sessionID, question, answer string) error {
	doc := map[string]interface{}{
		"session_id": sessionID,
		"question":   question,
		"answer":     answer,
		"created_at": time.Now(),
	}
	return r.index.Index(uuid.NewString(), doc)
}

// Count returns the number of indexed exchanges.
func (r *RecallIndex) Count() (uint64, error) {
	return r.index.DocCount()
}

// Search returns up to k exchanges matching query, best first.
func (r *RecallIndex) Search(query string, k int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if k <= 0 {
		k = 3
	}

	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = k
	req.Fields = []string{"question", "answer"}

	res, err := r.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("recall search failed: %w", err)
	}

	matches := make([]Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		m := Match{Score: hit.Score}
		if q, ok := hit.Fields["question"].(string); ok {
			m.Question = q
		}
		if a, ok := hit.Fields["answer"].(string); ok {
			m.Answer = a
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Close closes the index.
func (r *RecallIndex) Close() error {
	return r.index.Close()
}

// FormatMatches renders matches as Q:/A: pairs.
func FormatMatches(matches []Match) string {
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString("Q:" + m.Question + "\nA:" + m.Answer + "\n")
	}
	return sb.String()
}

// Indexed is a Store that also feeds a RecallIndex.
type Indexed struct {
	Store
	Recall    *RecallIndex
	SessionID string
}

// AppendExchange persists the exchange and indexes it. Indexing failures are
// logged, not returned.
func (s *Indexed) AppendExchange(ctx context.Context, question, answer string) error {
	if err := s.Store.AppendExchange(ctx, question, answer); err != nil {
		return err
	}
	if s.Recall != nil && strings.TrimSpace(question) != "" {
		if err := s.Recall.Index(s.SessionID, question, answer); err != nil {
			log.Printf("⚠️  recall index: %v", err)
		}
	}
	return nil
}

// Close closes the store and the index.
func (s *Indexed) Close() error {
	err := s.Store.Close()
	if s.Recall != nil {
		if cerr := s.Recall.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
