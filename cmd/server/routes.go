// Package main provides the DukeBot HTTP server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukebot/dukebot-go/internal/rank"
	"github.com/dukebot/dukebot-go/internal/refdata"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, conversations *conversationManager, store *refdata.Store, eventIndex *rank.Index, registry *prometheus.Registry) {
	// Root endpoint - service identity
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "dukebot"})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe - only that the process is running, no dependency checks
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe - reference data must be loaded for the resolvers to
	// be useful; the event index count is informational since that tool
	// degrades gracefully
	readyHandler := func(c *gin.Context) {
		subjects, groups, categories := store.Counts()
		if subjects == 0 && groups == 0 && categories == 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "no reference data loaded",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"reference_data": gin.H{
				"subjects":   subjects,
				"groups":     groups,
				"categories": categories,
			},
			"event_index":   eventIndex.Count(),
			"conversations": conversations.count(),
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Chat endpoint
	router.POST("/api/chat", conversations.handleChat)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
