// Package main provides the DukeBot HTTP server entry point.
package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukebot/dukebot-go/internal/agent"
	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/logger"
)

const (
	// conversationTTL evicts conversations idle longer than this.
	conversationTTL = time.Hour

	// conversationCleanupInterval is how often eviction runs.
	conversationCleanupInterval = 10 * time.Minute

	maxQueryLength = 2000
)

// chatRequest is the POST /api/chat payload. ConversationID is optional:
// omit it to start a fresh conversation.
type chatRequest struct {
	Query          string `json:"query" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// chatResponse carries the answer and the ID to send with follow-ups.
type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
}

type conversation struct {
	agent      *agent.Agent
	lastActive time.Time
}

// conversationManager keeps one Agent (and so one conversation buffer) per
// conversation ID, evicting idle ones.
type conversationManager struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	newAgent      func() (*agent.Agent, error)
	log           *logger.Logger
}

func newConversationManager(newAgent func() (*agent.Agent, error), log *logger.Logger) *conversationManager {
	return &conversationManager{
		conversations: make(map[string]*conversation),
		newAgent:      newAgent,
		log:           log,
	}
}

// get returns the agent for id, creating a conversation when id is empty or
// unknown. Unknown IDs get a fresh conversation under a fresh ID rather than
// an error, since the old one may simply have been evicted.
func (cm *conversationManager) get(id string) (string, *agent.Agent, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if id != "" {
		if conv, ok := cm.conversations[id]; ok {
			conv.lastActive = time.Now()
			return id, conv.agent, nil
		}
	}

	a, err := cm.newAgent()
	if err != nil {
		return "", nil, err
	}
	id = uuid.NewString()
	cm.conversations[id] = &conversation{agent: a, lastActive: time.Now()}
	return id, a, nil
}

// count returns the number of live conversations.
func (cm *conversationManager) count() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.conversations)
}

// cleanupLoop evicts idle conversations until ctx is cancelled.
func (cm *conversationManager) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(conversationCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := cm.evictStale(time.Now()); evicted > 0 {
				cm.log.WithField("evicted", evicted).Debug("Evicted idle conversations")
			}
		}
	}
}

func (cm *conversationManager) evictStale(now time.Time) int {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	evicted := 0
	for id, conv := range cm.conversations {
		if now.Sub(conv.lastActive) > conversationTTL {
			delete(cm.conversations, id)
			evicted++
		}
	}
	return evicted
}

// handleChat answers POST /api/chat. Agent failures still produce a 200 with
// an "An error occurred: ..." response body, matching what the CLI prints:
// the error text is the bot's answer, not a transport failure.
func (cm *conversationManager) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if len(req.Query) > maxQueryLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query too long"})
		return
	}

	id, a, err := cm.get(req.ConversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create conversation"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.AgentTurn)
	defer cancel()

	c.JSON(http.StatusOK, chatResponse{
		ConversationID: id,
		Response:       a.ProcessQuery(ctx, req.Query),
	})
}
