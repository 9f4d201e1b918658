// Package rank provides keyword search over calendar events using BM25,
// so the agent can surface events matching a free-form topic without the
// caller knowing the calendar's group or category taxonomy.
package rank

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	bm25 "github.com/iwilltry42/bm25-go/bm25"

	"github.com/dukebot/dukebot-go/internal/logger"
)

// Event is one calendar entry as indexed for search.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"summary"`
	Description string   `json:"description"`
	Sponsor     string   `json:"sponsor"`
	Categories  []string `json:"categories"`
	Start       string   `json:"start_timestamp"`
	URL         string   `json:"event_url"`
}

// Result is a ranked search hit. Confidence is derived from rank position,
// not the raw BM25 score, which is unbounded and query-dependent.
type Result struct {
	Event      Event   `json:"event"`
	Confidence float32 `json:"confidence"`
}

// Index provides BM25 keyword search over a set of events.
type Index struct {
	bm25Okapi   *bm25.BM25Okapi
	events      []Event
	logger      *logger.Logger
	mu          sync.RWMutex
	initialized bool
}

// NewIndex creates an empty event index.
func NewIndex(log *logger.Logger) *Index {
	return &Index{logger: log}
}

// Initialize builds the index from events, replacing any previous contents.
// BM25 needs the whole corpus for IDF, so updates are full rebuilds.
func (idx *Index) Initialize(events []Event) error {
	if idx == nil {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.events = events
	idx.bm25Okapi = nil
	idx.initialized = true

	if len(events) == 0 {
		return nil
	}

	corpus := make([]string, len(events))
	for i, ev := range events {
		corpus[i] = strings.Join([]string{
			ev.Title, ev.Description, ev.Sponsor, strings.Join(ev.Categories, " "),
		}, " ")
	}

	// k1=1.5, b=0.75 are standard BM25 parameters
	okapi, err := bm25.NewBM25Okapi(corpus, tokenize, 1.5, 0.75, nil)
	if err != nil {
		return fmt.Errorf("failed to create BM25 index: %w", err)
	}
	idx.bm25Okapi = okapi

	if idx.logger != nil {
		idx.logger.WithField("events", len(events)).Info("Event index initialized")
	}
	return nil
}

// Search returns up to topN events ranked by BM25 relevance to query.
// An empty or unindexable query, or an empty index, returns no results.
func (idx *Index) Search(query string, topN int) ([]Result, error) {
	if idx == nil {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.initialized || idx.bm25Okapi == nil {
		return nil, nil
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := idx.bm25Okapi.GetScores(tokens)
	if err != nil {
		return nil, fmt.Errorf("BM25 scoring failed: %w", err)
	}

	type scoredDoc struct {
		docID int
		score float64
	}
	var scored []scoredDoc
	for docID, score := range scores {
		if score > 0 {
			scored = append(scored, scoredDoc{docID: docID, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}

	results := make([]Result, len(scored))
	for i, sd := range scored {
		results[i] = Result{
			Event:      idx.events[sd.docID],
			Confidence: rankConfidence(i + 1),
		}
	}
	return results, nil
}

// Count returns the number of indexed events.
func (idx *Index) Count() int {
	if idx == nil {
		return 0
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.events)
}

// rankConfidence maps a 1-indexed rank to a confidence in (0, 1).
//
// Formula: 1 / (1 + 0.05 * rank)
//   - rank 1 → 0.95
//   - rank 5 → 0.80
//   - rank 10 → 0.67
func rankConfidence(rank int) float32 {
	if rank <= 0 {
		return 0
	}
	return float32(1.0 / (1.0 + 0.05*float64(rank)))
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
			continue
		}
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	if word.Len() > 0 {
		tokens = append(tokens, word.String())
	}
	return tokens
}

// ParseEventsFeed extracts events from a calendar JSON feed body. The feed
// is either a bare array or an object with an "events" key.
func ParseEventsFeed(body string) ([]Event, error) {
	trimmed := strings.TrimSpace(body)

	var events []Event
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &events); err != nil {
			return nil, fmt.Errorf("failed to parse events feed: %w", err)
		}
		return events, nil
	}

	var envelope struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse events feed: %w", err)
	}
	return envelope.Events, nil
}
