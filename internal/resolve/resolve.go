// Package resolve maps free-form user text to the exact canonical strings
// the Duke APIs accept. Subjects, event groups, and event categories each
// have their own lookup over the reference lists in refdata.
//
// Matching is a case-insensitive substring scan, capped at five results.
// Subjects get two passes, code first then description, so "cs" finds
// "COMPSCI - Computer Science" by its code before any description hits.
package resolve

import (
	"strings"

	"github.com/dukebot/dukebot-go/internal/metrics"
	"github.com/dukebot/dukebot-go/internal/refdata"
	"github.com/dukebot/dukebot-go/internal/sliceutil"
	"github.com/dukebot/dukebot-go/internal/stringutil"
)

// MaxMatches caps every lookup result.
const MaxMatches = 5

// Lookup kinds reported to metrics.
const (
	KindSubject  = "subject"
	KindGroup    = "group"
	KindCategory = "category"
)

// Result is what a lookup returns to the caller. Matches is never nil, so
// the JSON rendering of a miss is {"query":"...","matches":[]}.
type Result struct {
	Query   string   `json:"query"`
	Matches []string `json:"matches"`
}

// Resolver performs lookups against an injected reference data store.
type Resolver struct {
	store   *refdata.Store
	metrics *metrics.Metrics
}

// New creates a Resolver over the given store. metrics may be nil.
func New(store *refdata.Store, m *metrics.Metrics) *Resolver {
	return &Resolver{store: store, metrics: m}
}

// SearchSubjects matches query against curriculum subjects of the form
// "CODE - Description". Code matches rank before description matches, and a
// subject hit in both passes appears once.
func (r *Resolver) SearchSubjects(query string) Result {
	folded := stringutil.Fold(query)

	var codeHits, descHits []string
	for _, subject := range r.store.Subjects {
		code, desc, found := strings.Cut(subject, " - ")
		if !found {
			// Malformed line, fall back to whole-entry matching
			if stringutil.ContainsFold(subject, query) {
				descHits = append(descHits, subject)
			}
			continue
		}
		if strings.Contains(stringutil.Fold(code), folded) {
			codeHits = append(codeHits, subject)
		} else if strings.Contains(stringutil.Fold(desc), folded) {
			descHits = append(descHits, subject)
		}
	}

	merged := sliceutil.Deduplicate(append(codeHits, descHits...), func(s string) string { return s })
	return r.finish(KindSubject, query, merged)
}

// SearchGroups matches query against event group names.
func (r *Resolver) SearchGroups(query string) Result {
	return r.finish(KindGroup, query, scan(r.store.Groups, query))
}

// SearchCategories matches query against event category names.
func (r *Resolver) SearchCategories(query string) Result {
	return r.finish(KindCategory, query, scan(r.store.Categories, query))
}

func scan(entries []string, query string) []string {
	var hits []string
	for _, entry := range entries {
		if stringutil.ContainsFold(entry, query) {
			hits = append(hits, entry)
		}
	}
	return hits
}

func (r *Resolver) finish(kind, query string, matches []string) Result {
	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}
	if matches == nil {
		matches = []string{}
	}
	if r.metrics != nil {
		r.metrics.RecordResolverQuery(kind, len(matches) > 0)
	}
	return Result{Query: query, Matches: matches}
}
