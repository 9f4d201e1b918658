package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	apperrors "github.com/dukebot/dukebot-go/internal/errors"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
)

// DefaultMaxIterations bounds the tool-calling loop per query. Five rounds
// covers resolve + fetch + follow-up fetch with room to recover once.
const DefaultMaxIterations = 5

// llmMaxAttempts is the per-request try count against the completion API.
const llmMaxAttempts = 3

// ChatCompleter is the slice of the OpenAI client the agent needs. Tests
// substitute a scripted fake.
type ChatCompleter interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Agent runs the tool-calling loop for one conversation.
type Agent struct {
	completer     ChatCompleter
	model         string
	registry      *Registry
	memory        *Memory
	maxIterations int
	metrics       *metrics.Metrics
	log           *logger.Logger
}

// Options configures an Agent.
type Options struct {
	// APIKey creates a real OpenAI client when Completer is nil.
	APIKey    string
	Completer ChatCompleter
	Model     string
	Registry  *Registry
	// MaxIterations defaults to DefaultMaxIterations when <= 0.
	MaxIterations int
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
}

// New creates an Agent. Either APIKey or Completer must be set.
func New(opts Options) (*Agent, error) {
	if opts.Completer == nil {
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openai: %w", apperrors.ErrMissingCredential)
		}
		client := openai.NewClient(option.WithAPIKey(opts.APIKey))
		opts.Completer = &client.Chat.Completions
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("agent model is required")
	}
	if opts.Registry == nil || opts.Registry.Len() == 0 {
		return nil, fmt.Errorf("agent needs at least one tool")
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	return &Agent{
		completer:     opts.Completer,
		model:         opts.Model,
		registry:      opts.Registry,
		memory:        NewMemory(),
		maxIterations: opts.MaxIterations,
		metrics:       opts.Metrics,
		log:           opts.Logger,
	}, nil
}

// Memory exposes the conversation buffer, mainly for tests and the CLI.
func (a *Agent) Memory() *Memory {
	return a.memory
}

// ProcessQuery runs one user query through the loop and always returns a
// user-facing string: failures come back as "An error occurred: <message>"
// so callers can hand the text straight to the user.
func (a *Agent) ProcessQuery(ctx context.Context, query string) string {
	answer, err := a.Run(ctx, query)
	if err != nil {
		if a.log != nil {
			a.log.WithError(err).Warn("Agent query failed")
		}
		return fmt.Sprintf("An error occurred: %s", err.Error())
	}
	return answer
}

// Run executes the tool-calling loop for query and returns the model's
// final answer. The completed exchange is added to memory on success.
func (a *Agent) Run(ctx context.Context, query string) (string, error) {
	start := time.Now()
	answer, err := a.run(ctx, query)

	if a.metrics != nil {
		status := "success"
		switch {
		case errors.Is(err, apperrors.ErrIterationLimit):
			status = "iteration_limit"
		case err != nil:
			status = "error"
		}
		a.metrics.RecordAgentTurn(status, time.Since(start).Seconds())
	}
	if err != nil {
		return "", err
	}

	a.memory.AddExchange(query, answer)
	return answer, nil
}

func (a *Agent) run(ctx context.Context, query string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, a.memory.Len()+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	messages = append(messages, a.memory.Messages()...)
	messages = append(messages, openai.UserMessage(query))

	tools := a.registry.openAITools()

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		resp, err := a.complete(ctx, openai.ChatCompletionNewParams{
			Model:       a.model,
			Messages:    messages,
			Tools:       tools,
			Temperature: openai.Float(0),
		})
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty response from model")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg.ToParam())
		for _, tc := range msg.ToolCalls {
			result := a.executeToolCall(ctx, tc)
			messages = append(messages, openai.ToolMessage(result, tc.ID))
		}
	}

	return "", fmt.Errorf("no final answer after %d iterations: %w", a.maxIterations, apperrors.ErrIterationLimit)
}

// complete calls the model, retrying transient failures.
func (a *Agent) complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	var lastErr error
	for attempt := 0; attempt < llmMaxAttempts; attempt++ {
		if attempt > 0 {
			if a.metrics != nil {
				a.metrics.RecordLLMRetry(a.model)
			}
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := a.completer.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// executeToolCall runs one tool call and renders its outcome as the string
// handed back to the model. Errors become descriptive text rather than
// aborting the loop, so the model can recover or explain the failure.
func (a *Agent) executeToolCall(ctx context.Context, tc openai.ChatCompletionMessageToolCallUnion) string {
	name := tc.Function.Name
	start := time.Now()

	result, err := a.executeTool(ctx, name, tc.Function.Arguments)

	if a.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		a.metrics.RecordToolCall(name, status, time.Since(start).Seconds())
	}
	if a.log != nil {
		a.log.WithFields(map[string]any{
			"tool":        name,
			"duration_ms": time.Since(start).Milliseconds(),
			"failed":      err != nil,
		}).Debug("Tool call executed")
	}

	if err != nil {
		return renderToolError(err)
	}
	return result
}

func (a *Agent) executeTool(ctx context.Context, name, rawArgs string) (string, error) {
	tool := a.registry.Get(name)
	if tool == nil {
		return "", fmt.Errorf("tool %q: %w", name, apperrors.ErrToolNotFound)
	}

	args, err := decodeArgs(rawArgs)
	if err != nil {
		return "", err
	}

	return tool.Handler(ctx, args)
}

// renderToolError converts a tool failure into the text the model sees.
// The fixed phrasings for fetch and parse failures are load-bearing: the
// model has been observed to recover from them reliably.
func renderToolError(err error) string {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Failed to fetch data: %d", apiErr.StatusCode)
	}

	var parseErr *apperrors.ParseError
	if errors.As(err, &parseErr) {
		return "Error: Could not parse API response"
	}

	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(payload)
}
