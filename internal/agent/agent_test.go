package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
)

// fakeCompleter replays scripted responses and records every request.
type fakeCompleter struct {
	responses []*openai.ChatCompletion
	requests  []openai.ChatCompletionNewParams
	err       error
	failures  int
}

func (f *fakeCompleter) New(_ context.Context, params openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.requests = append(f.requests, params)
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("transient upstream error")
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return nil, errors.New("fake completer: script exhausted")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func textResponse(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}},
		},
	}
}

func toolCallResponse(id, name, arguments string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role: "assistant",
				ToolCalls: []openai.ChatCompletionMessageToolCallUnion{
					{
						ID:   id,
						Type: "function",
						Function: openai.ChatCompletionMessageFunctionToolCallFunction{
							Name:      name,
							Arguments: arguments,
						},
					},
				},
			}},
		},
	}
}

func echoRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Tool{
		Name:        "echo",
		Description: "echoes its input",
		Parameters:  queryParam("text to echo"),
		Required:    []string{"query"},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			return "echo: " + stringArg(args, "query", ""), nil
		},
	}))
	return reg
}

func newTestAgent(t *testing.T, completer ChatCompleter, reg *Registry) *Agent {
	t.Helper()
	a, err := New(Options{
		Completer: completer,
		Model:     "gpt-4o",
		Registry:  reg,
	})
	require.NoError(t, err)
	return a
}

func TestRun_DirectAnswer(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{responses: []*openai.ChatCompletion{
		textResponse("Duke has many events this week."),
	}}
	a := newTestAgent(t, fake, echoRegistry(t))

	answer, err := a.Run(context.Background(), "What events are happening at Duke this week?")
	require.NoError(t, err)
	assert.Equal(t, "Duke has many events this week.", answer)

	// The exchange lands in memory
	assert.Equal(t, 2, a.Memory().Len())

	// The request carried the system prompt, the user query, and the toolset
	require.Len(t, fake.requests, 1)
	assert.Len(t, fake.requests[0].Messages, 2)
	assert.Len(t, fake.requests[0].Tools, 1)
}

func TestRun_ToolCallRoundTrip(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{responses: []*openai.ChatCompletion{
		toolCallResponse("call_1", "echo", `{"query":"artificial intelligence"}`),
		textResponse("Here is what I found."),
	}}
	a := newTestAgent(t, fake, echoRegistry(t))

	answer, err := a.Run(context.Background(), "find ai stuff")
	require.NoError(t, err)
	assert.Equal(t, "Here is what I found.", answer)

	// Second request = system + user + assistant tool call + tool result
	require.Len(t, fake.requests, 2)
	require.Len(t, fake.requests[1].Messages, 4)

	toolMsg, err := json.Marshal(fake.requests[1].Messages[3])
	require.NoError(t, err)
	assert.Contains(t, string(toolMsg), "echo: artificial intelligence")
	assert.Contains(t, string(toolMsg), "call_1")
}

func TestRun_MemoryCarriesIntoNextTurn(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{responses: []*openai.ChatCompletion{
		textResponse("first answer"),
		textResponse("second answer"),
	}}
	a := newTestAgent(t, fake, echoRegistry(t))

	_, err := a.Run(context.Background(), "first question")
	require.NoError(t, err)
	_, err = a.Run(context.Background(), "follow-up")
	require.NoError(t, err)

	// system + prior exchange (2) + new user message
	require.Len(t, fake.requests, 2)
	assert.Len(t, fake.requests[1].Messages, 4)
}

func TestRun_IterationLimit(t *testing.T) {
	t.Parallel()

	var responses []*openai.ChatCompletion
	for i := 0; i < DefaultMaxIterations+1; i++ {
		responses = append(responses, toolCallResponse(fmt.Sprintf("call_%d", i), "echo", `{"query":"again"}`))
	}
	fake := &fakeCompleter{responses: responses}
	a := newTestAgent(t, fake, echoRegistry(t))

	_, err := a.Run(context.Background(), "loop forever")
	require.ErrorIs(t, err, apperrors.ErrIterationLimit)
	assert.Len(t, fake.requests, DefaultMaxIterations)

	// A failed turn leaves no trace in memory
	assert.Equal(t, 0, a.Memory().Len())
}

func TestProcessQuery_WrapsErrors(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{err: errors.New("service unavailable")}
	a := newTestAgent(t, fake, echoRegistry(t))

	got := a.ProcessQuery(context.Background(), "anything")
	assert.Contains(t, got, "An error occurred: ")
	assert.Contains(t, got, "service unavailable")
}

func TestComplete_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{
		failures:  2,
		responses: []*openai.ChatCompletion{textResponse("recovered")},
	}
	a := newTestAgent(t, fake, echoRegistry(t))

	answer, err := a.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
	assert.Len(t, fake.requests, 3)
}

func TestExecuteToolCall_UnknownTool(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{responses: []*openai.ChatCompletion{
		toolCallResponse("call_1", "no_such_tool", `{}`),
		textResponse("done"),
	}}
	a := newTestAgent(t, fake, echoRegistry(t))

	_, err := a.Run(context.Background(), "q")
	require.NoError(t, err)

	toolMsg, err := json.Marshal(fake.requests[1].Messages[3])
	require.NoError(t, err)
	assert.Contains(t, string(toolMsg), "error")
	assert.Contains(t, string(toolMsg), "no_such_tool")
}

func TestRenderToolError(t *testing.T) {
	t.Parallel()

	apiErr := apperrors.NewAPIError("https://example.com", http.StatusNotFound, nil)
	assert.Equal(t, "Failed to fetch data: 404", renderToolError(apiErr))

	wrapped := fmt.Errorf("fetch events: %w", apperrors.NewAPIError("u", http.StatusBadGateway, nil))
	assert.Equal(t, "Failed to fetch data: 502", renderToolError(wrapped))

	parseErr := apperrors.NewParseError("https://example.com", errors.New("bad json"))
	assert.Equal(t, "Error: Could not parse API response", renderToolError(parseErr))

	var generic struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(renderToolError(errors.New("boom"))), &generic))
	assert.Equal(t, "boom", generic.Error)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Model: "gpt-4o", Registry: echoRegistry(t)})
	assert.ErrorIs(t, err, apperrors.ErrMissingCredential)

	_, err = New(Options{Completer: &fakeCompleter{}, Registry: echoRegistry(t)})
	assert.Error(t, err)

	_, err = New(Options{Completer: &fakeCompleter{}, Model: "gpt-4o", Registry: NewRegistry()})
	assert.Error(t, err)
}
