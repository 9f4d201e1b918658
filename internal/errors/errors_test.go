package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "with status code",
			err:      NewAPIError("https://calendar.duke.edu/events/index.json", 503, errors.New("service unavailable")),
			expected: "api error (url=https://calendar.duke.edu/events/index.json, status=503): service unavailable",
		},
		{
			name:     "without status code",
			err:      NewAPIError("https://streamer.oit.duke.edu/ldap/people", 0, errors.New("connection refused")),
			expected: "api error (url=https://streamer.oit.duke.edu/ldap/people): connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	err := NewAPIError("https://example.com", 404, cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the underlying cause")
	}
}

func TestAPIError_As(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("fetch events: %w", NewAPIError("https://example.com", 500, errors.New("boom")))

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As should extract *APIError from wrapped chain")
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	cause := errors.New("unexpected end of JSON input")
	err := NewParseError("https://streamer.oit.duke.edu/curriculum/courses/subject/AIPI", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the underlying cause")
	}

	expected := "parse error (url=https://streamer.oit.duke.edu/curriculum/courses/subject/AIPI): unexpected end of JSON input"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("feed_type", "must be one of json, rss, csv, ics, js, jsonp")
	expected := "validation failed on feed_type: must be one of json, rss, csv, ics, js, jsonp"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrMissingCredential,
		ErrInvalidInput,
		ErrTimeout,
		ErrToolNotFound,
		ErrIterationLimit,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}
