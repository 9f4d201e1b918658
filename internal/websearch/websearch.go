// Package websearch answers questions about the Pratt School of Engineering
// that the structured Duke APIs cannot, by querying Google through SerpAPI
// and filtering the results down to Duke sources.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukebot/dukebot-go/internal/config"
	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/logger"
)

// DefaultBaseURL is the SerpAPI endpoint. Overridable for tests.
const DefaultBaseURL = "https://serpapi.com"

const (
	maxOrganicResults   = 8
	maxRelatedQuestions = 4
	fallbackResultCount = 5
)

// Client queries SerpAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// Options configures a websearch Client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *logger.Logger
}

// NewClient creates a SerpAPI client. The API key is required.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("serpapi: %w", apperrors.ErrMissingCredential)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.APIRequest
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		log:        opts.Logger,
	}, nil
}

// SearchMetadata summarizes the executed query.
type SearchMetadata struct {
	Query        string `json:"query"`
	TotalResults int64  `json:"total_results"`
}

// OrganicResult is one filtered search hit.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// KnowledgeGraph carries the sidebar card Google shows for well-known
// entities, when present.
type KnowledgeGraph struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Address     string `json:"address"`
}

// RelatedQuestion is one "people also ask" entry.
type RelatedQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Results is the filtered response handed to the agent.
type Results struct {
	SearchMetadata   SearchMetadata    `json:"search_metadata"`
	OrganicResults   []OrganicResult   `json:"organic_results"`
	KnowledgeGraph   KnowledgeGraph    `json:"knowledge_graph"`
	RelatedQuestions []RelatedQuestion `json:"related_questions"`
}

// rawResponse mirrors the slice of the SerpAPI payload we consume.
type rawResponse struct {
	SearchMetadata struct {
		Query string `json:"query"`
	} `json:"search_metadata"`
	SearchInformation struct {
		TotalResults int64 `json:"total_results"`
	} `json:"search_information"`
	OrganicResults   []OrganicResult   `json:"organic_results"`
	KnowledgeGraph   *KnowledgeGraph   `json:"knowledge_graph"`
	RelatedQuestions []RelatedQuestion `json:"related_questions"`
}

// Search runs query through SerpAPI and returns filtered results. Queries
// that do not mention Duke Pratt are scoped to it, since that is the only
// domain this bot answers for.
func (c *Client) Search(ctx context.Context, query string) (*Results, error) {
	if !strings.Contains(strings.ToLower(query), "duke pratt") {
		query = "Duke Pratt School of Engineering " + query
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("num", "10")
	params.Set("api_key", c.apiKey)
	searchURL := c.baseURL + "/search.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewAPIError(c.baseURL+"/search.json", resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read serpapi response: %w", err)
	}

	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.NewParseError(c.baseURL+"/search.json", err)
	}

	return processResults(&raw), nil
}

// processResults filters organic hits to Duke sources, puts pratt.duke.edu
// links first, and caps every section. When filtering leaves nothing, the
// top unfiltered hits are kept so the agent is never left empty-handed.
func processResults(raw *rawResponse) *Results {
	out := &Results{
		SearchMetadata: SearchMetadata{
			Query:        raw.SearchMetadata.Query,
			TotalResults: raw.SearchInformation.TotalResults,
		},
		OrganicResults:   []OrganicResult{},
		RelatedQuestions: []RelatedQuestion{},
	}

	var pratt, otherDuke []OrganicResult
	for _, r := range raw.OrganicResults {
		if !strings.Contains(strings.ToLower(r.Link), "duke") &&
			!strings.Contains(strings.ToLower(r.Snippet), "duke") {
			continue
		}
		if strings.Contains(r.Link, "pratt.duke.edu") {
			pratt = append(pratt, r)
		} else {
			otherDuke = append(otherDuke, r)
		}
	}

	filtered := append(pratt, otherDuke...)
	if len(filtered) == 0 && len(raw.OrganicResults) > 0 {
		filtered = raw.OrganicResults
		if len(filtered) > fallbackResultCount {
			filtered = filtered[:fallbackResultCount]
		}
	}
	if len(filtered) > maxOrganicResults {
		filtered = filtered[:maxOrganicResults]
	}
	out.OrganicResults = append(out.OrganicResults, filtered...)

	if raw.KnowledgeGraph != nil {
		out.KnowledgeGraph = *raw.KnowledgeGraph
	}

	questions := raw.RelatedQuestions
	if len(questions) > maxRelatedQuestions {
		questions = questions[:maxRelatedQuestions]
	}
	out.RelatedQuestions = append(out.RelatedQuestions, questions...)

	return out
}
