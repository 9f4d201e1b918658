package agent

import (
	"sync"

	"github.com/openai/openai-go/v3"
)

// defaultMemoryLimit bounds the conversation buffer at 20 exchanges.
// Older turns fall off the front once the limit is hit.
const defaultMemoryLimit = 40

// Memory is a conversation buffer: completed user/assistant exchanges that
// get replayed ahead of each new query so follow-ups have context.
// Intermediate tool calls are not retained between turns.
type Memory struct {
	mu       sync.Mutex
	messages []openai.ChatCompletionMessageParamUnion
	limit    int
}

// NewMemory creates a conversation buffer with the default size limit.
func NewMemory() *Memory {
	return &Memory{limit: defaultMemoryLimit}
}

// AddExchange records one completed user/assistant turn.
func (m *Memory) AddExchange(userInput, assistantOutput string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages,
		openai.UserMessage(userInput),
		openai.AssistantMessage(assistantOutput),
	)
	if m.limit > 0 && len(m.messages) > m.limit {
		// Drop whole exchanges, never a lone user message
		excess := len(m.messages) - m.limit
		if excess%2 != 0 {
			excess++
		}
		m.messages = append([]openai.ChatCompletionMessageParamUnion(nil), m.messages[excess:]...)
	}
}

// Messages returns a copy of the buffered history.
func (m *Memory) Messages() []openai.ChatCompletionMessageParamUnion {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]openai.ChatCompletionMessageParamUnion, len(m.messages))
	copy(out, m.messages)
	return out
}

// Len returns the number of buffered messages.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Clear empties the buffer.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}
