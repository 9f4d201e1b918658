package dukeapi

import (
	"context"
	"fmt"
	"strings"
)

// Feed formats accepted by the calendar API.
const (
	FeedJSON  = "json"
	FeedJSONP = "jsonp"
	FeedRSS   = "rss"
	FeedJS    = "js"
	FeedICS   = "ics"
	FeedCSV   = "csv"
)

// FacetAll is the sentinel that disables filtering on a facet. A facet list
// containing it contributes nothing to the URL.
const FacetAll = "All"

// DefaultFutureDays is the event window when the caller does not specify one.
const DefaultFutureDays = 45

// EventsRequest describes one calendar query. MatchAll=true requires an
// event to carry every listed value (AND, the gfu[]/cfu[] keys); false
// accepts any of them (OR, the gf[]/cf[] keys).
type EventsRequest struct {
	FeedType           string
	FutureDays         int
	Groups             []string
	Categories         []string
	GroupsMatchAll     bool
	CategoriesMatchAll bool
}

// DefaultEventsRequest returns the request the agent starts from: JSON feed,
// 45 days out, no group or category filtering, AND semantics.
func DefaultEventsRequest() EventsRequest {
	return EventsRequest{
		FeedType:           FeedJSON,
		FutureDays:         DefaultFutureDays,
		Groups:             []string{FacetAll},
		Categories:         []string{FacetAll},
		GroupsMatchAll:     true,
		CategoriesMatchAll: true,
	}
}

// EventsURL renders req as a calendar API URL. The query string layout
// (categories before groups, a leading bare "&", the trailing feed_type
// fragment) matches what the calendar service has historically accepted, so
// it is kept verbatim rather than normalized.
func (c *Client) EventsURL(req EventsRequest) string {
	feedType := req.FeedType
	if feedType == "" {
		feedType = FeedJSON
	}

	// Native feed formats already imply their rendering; everything else
	// needs the simple feed flag.
	feedTypeParam := ""
	switch feedType {
	case FeedRSS, FeedJS, FeedICS, FeedCSV:
	default:
		feedTypeParam = "feed_type=simple"
	}

	categoryPart := facetParams(req.Categories, req.CategoriesMatchAll, "cfu[]", "cf[]")
	groupPart := facetParams(req.Groups, req.GroupsMatchAll, "gfu[]", "gf[]")

	return fmt.Sprintf("%s/events/index.%s?%s%s&future_days=%d&%s",
		c.calendarBaseURL, feedType, categoryPart, groupPart, req.FutureDays, feedTypeParam)
}

func facetParams(values []string, matchAll bool, allKey, anyKey string) string {
	for _, v := range values {
		if v == FacetAll {
			return ""
		}
	}

	key := anyKey
	if matchAll {
		key = allKey
	}

	var b strings.Builder
	for _, v := range values {
		b.WriteString("&")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(escape(v))
	}
	return b.String()
}

// FetchEvents performs the calendar query and returns the raw feed body.
func (c *Client) FetchEvents(ctx context.Context, req EventsRequest) (string, error) {
	body, err := c.get(ctx, "events", c.EventsURL(req))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
