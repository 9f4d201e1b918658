package websearch

import (
	"context"
	"fmt"
	"sort"
)

// Curated queries per Pratt topic. The agent asks by topic name instead of
// composing search phrasing itself, which keeps results consistent.
var topicQueries = map[string]string{
	"general":      "Duke Pratt School of Engineering overview information",
	"academics":    "Duke Pratt School of Engineering academic programs degrees majors",
	"admissions":   "Duke Pratt School of Engineering admissions requirements application deadlines",
	"ai_meng":      "Duke Pratt AI for Product Innovation MEng program curriculum courses",
	"student_life": "Duke Pratt School of Engineering student life experience campus",
	"research":     "Duke Pratt School of Engineering research areas labs projects",
	"faculty":      "Duke Pratt School of Engineering faculty professors researchers",
	"events":       "Duke Pratt School of Engineering events workshops seminars",
}

var subtopicQueries = map[string]map[string]string{
	"academics": {
		"undergraduate": "Duke Pratt School of Engineering undergraduate programs BSE degrees majors",
		"graduate":      "Duke Pratt School of Engineering graduate programs masters PhD",
		"courses":       "Duke Pratt School of Engineering course offerings classes",
		"requirements":  "Duke Pratt School of Engineering degree requirements curriculum",
	},
	"admissions": {
		"undergraduate": "Duke Pratt School of Engineering undergraduate admissions requirements deadlines",
		"graduate":      "Duke Pratt School of Engineering graduate admissions requirements deadlines",
		"deadlines":     "Duke Pratt School of Engineering application deadlines",
		"requirements":  "Duke Pratt School of Engineering application requirements",
	},
	"ai_meng": {
		"curriculum": "Duke Pratt AI for Product Innovation MEng program curriculum courses",
		"admissions": "Duke Pratt AI for Product Innovation MEng program admissions requirements",
		"careers":    "Duke Pratt AI for Product Innovation MEng program career outcomes jobs",
		"faculty":    "Duke Pratt AI for Product Innovation MEng program faculty instructors",
	},
}

// UnknownTopicError reports a topic outside the curated set, carrying the
// valid names so the agent can correct itself.
type UnknownTopicError struct {
	Topic           string
	AvailableTopics []string
}

func (e *UnknownTopicError) Error() string {
	return fmt.Sprintf("Topic '%s' not found", e.Topic)
}

// Topics returns the curated topic names, sorted.
func Topics() []string {
	names := make([]string, 0, len(topicQueries))
	for name := range topicQueries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TopicQuery resolves a topic and optional subtopic to its search query.
// An unrecognized subtopic falls back to the topic query; an unrecognized
// topic is an error.
func TopicQuery(topic, subtopic string) (string, error) {
	query, ok := topicQueries[topic]
	if !ok {
		return "", &UnknownTopicError{Topic: topic, AvailableTopics: Topics()}
	}
	if subtopic != "" {
		if sub, ok := subtopicQueries[topic][subtopic]; ok {
			return sub, nil
		}
	}
	return query, nil
}

// SearchTopic resolves the topic to its curated query and runs the search.
func (c *Client) SearchTopic(ctx context.Context, topic, subtopic string) (*Results, error) {
	query, err := TopicQuery(topic, subtopic)
	if err != nil {
		return nil, err
	}
	return c.Search(ctx, query)
}
