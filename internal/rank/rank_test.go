package rank

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukebot/dukebot-go/internal/logger"
)

func testEvents() []Event {
	return []Event{
		{
			ID:          "1",
			Title:       "Machine Learning Seminar",
			Description: "Weekly seminar on deep learning and neural networks",
			Sponsor:     "+DataScience (+DS)",
			Categories:  []string{"Artificial Intelligence", "Lecture/Talk"},
		},
		{
			ID:          "2",
			Title:       "Alumni Reunion Weekend",
			Description: "Reconnect with classmates across campus",
			Sponsor:     "Duke Alumni Association",
			Categories:  []string{"Alumni/Reunion"},
		},
		{
			ID:          "3",
			Title:       "Intro to Neural Networks Workshop",
			Description: "Hands-on workshop covering backpropagation basics",
			Sponsor:     "Pratt School of Engineering",
			Categories:  []string{"Workshop/Short Course"},
		},
	}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex(logger.NewWithWriter("error", os.Stderr))
	require.NoError(t, idx.Initialize(testEvents()))
	return idx
}

func TestSearch_RanksRelevantEventsFirst(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	results, err := idx.Search("neural networks", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// Both ML events should outrank the reunion, which does not mention
	// the query terms at all
	for _, r := range results {
		assert.NotEqual(t, "2", r.Event.ID)
	}
}

func TestSearch_TopNLimits(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	results, err := idx.Search("duke campus seminar workshop", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 1)
}

func TestSearch_ConfidenceDecreasesWithRank(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	results, err := idx.Search("neural networks seminar workshop", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), 2)

	assert.InDelta(t, 0.95, results[0].Confidence, 0.01)
	assert.Greater(t, results[0].Confidence, results[1].Confidence)
}

func TestSearch_EmptyQueryAndEmptyIndex(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	results, err := idx.Search("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	empty := NewIndex(logger.NewWithWriter("error", os.Stderr))
	require.NoError(t, empty.Initialize(nil))
	results, err = empty.Search("anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"ai", "for", "product", "innovation", "aipi"},
		tokenize("AI for Product Innovation (AIPI)"))
	assert.Empty(t, tokenize("!!! --- ???"))
}

func TestParseEventsFeed(t *testing.T) {
	t.Parallel()

	fromArray, err := ParseEventsFeed(`[{"id":"1","summary":"Talk"}]`)
	require.NoError(t, err)
	require.Len(t, fromArray, 1)
	assert.Equal(t, "Talk", fromArray[0].Title)

	fromEnvelope, err := ParseEventsFeed(`{"events":[{"id":"1","summary":"Talk"},{"id":"2","summary":"Workshop"}]}`)
	require.NoError(t, err)
	assert.Len(t, fromEnvelope, 2)

	_, err = ParseEventsFeed(`<html>nope</html>`)
	assert.Error(t, err)
}
