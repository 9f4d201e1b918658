// Package main provides the DukeBot HTTP server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dukebot/dukebot-go/internal/agent"
	"github.com/dukebot/dukebot-go/internal/buildinfo"
	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/dukeapi"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/metrics"
	"github.com/dukebot/dukebot-go/internal/rank"
	"github.com/dukebot/dukebot-go/internal/refdata"
	"github.com/dukebot/dukebot-go/internal/resolve"
	"github.com/dukebot/dukebot-go/internal/sentry"
	"github.com/dukebot/dukebot-go/internal/websearch"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger, shipping to Better Stack when configured
	var log *logger.Logger
	if cfg.BetterStackToken != "" {
		log = logger.NewWithBetterstack(cfg.LogLevel, os.Stdout, cfg.BetterStackToken, cfg.BetterStackEndpoint)
	} else {
		log = logger.New(cfg.LogLevel)
	}
	log.WithField("release", buildinfo.Release()).Info("Starting DukeBot server")

	// Initialize error tracking
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	}
	defer sentry.Flush(2 * time.Second)

	// Create Prometheus registry with standard collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Load reference lists and build the format resolver
	store := refdata.LoadStore(cfg.DataDir, log)
	subjects, groups, categories := store.Counts()
	log.WithFields(map[string]any{
		"subjects":   subjects,
		"groups":     groups,
		"categories": categories,
	}).Info("Reference data loaded")
	resolver := resolve.New(store, m)

	// Duke API client shared by all tools
	duke := dukeapi.NewClient(dukeapi.Options{
		Token:      cfg.DukeAPIToken,
		Timeout:    cfg.APITimeout,
		MaxRetries: cfg.APIMaxRetries,
		Metrics:    m,
		Logger:     log.WithModule("dukeapi"),
	})

	// Web search tool (optional - requires SerpAPI key)
	var web *websearch.Client
	if cfg.HasWebSearch() {
		web, err = websearch.NewClient(websearch.Options{
			APIKey: cfg.SerpAPIKey,
			Logger: log.WithModule("websearch"),
		})
		if err != nil {
			log.WithError(err).Warn("Failed to create web search client, tool disabled")
		} else {
			log.Info("Web search tool enabled")
		}
	} else {
		log.Info("SerpAPI key not configured, web search tool disabled")
	}

	// Event keyword index, warmed in the background so startup stays fast
	eventIndex := rank.NewIndex(log.WithModule("rank"))
	go warmEventIndex(context.Background(), duke, eventIndex, log)

	// The agent is the whole point of the server
	if !cfg.HasAgent() {
		log.Fatal("OPENAI_API_KEY not found in environment variables")
	}

	registryTools := agent.NewRegistry()
	if err := agent.RegisterAll(registryTools, agent.Deps{
		Resolver: resolver,
		Duke:     duke,
		Web:      web,
		Events:   eventIndex,
	}); err != nil {
		log.WithError(err).Fatal("Failed to register agent tools")
	}
	log.WithField("tools", registryTools.Names()).Info("Agent toolset registered")

	conversations := newConversationManager(func() (*agent.Agent, error) {
		return agent.New(agent.Options{
			APIKey:        cfg.OpenAIAPIKey,
			Model:         cfg.OpenAIModel,
			Registry:      registryTools,
			MaxIterations: cfg.AgentMaxIterations,
			Metrics:       m,
			Logger:        log.WithModule("agent"),
		})
	}, log)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, conversations, store, eventIndex, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ServerHTTPRead,
		WriteTimeout: config.ServerHTTPWrite,
		IdleTimeout:  config.ServerHTTPIdle,
	}

	// Background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Stale conversation eviction (every 10 minutes)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in conversation cleanup goroutine")
			}
		}()
		conversations.cleanupLoop(ctx)
	}()

	// Event index refresh (every 6 hours)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in event index refresh goroutine")
			}
		}()
		refreshEventIndex(ctx, duke, eventIndex, log)
	}()

	// Start server
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()
	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}

// warmEventIndex does the initial calendar fetch for the keyword search tool.
// Failure is non-fatal: the tool returns no results until the next refresh.
func warmEventIndex(ctx context.Context, duke *dukeapi.Client, idx *rank.Index, log *logger.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Panic in event index warmup")
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, config.APIRequest)
	defer cancel()

	body, err := duke.FetchEvents(fetchCtx, dukeapi.DefaultEventsRequest())
	if err != nil {
		log.WithError(err).Warn("Event index warmup fetch failed")
		return
	}
	events, err := rank.ParseEventsFeed(body)
	if err != nil {
		log.WithError(err).Warn("Event index warmup parse failed")
		return
	}
	if err := idx.Initialize(events); err != nil {
		log.WithError(err).Warn("Event index initialization failed")
	}
}

// refreshEventIndex rebuilds the keyword index periodically so the
// search_events_by_topic tool tracks the live calendar.
func refreshEventIndex(ctx context.Context, duke *dukeapi.Client, idx *rank.Index, log *logger.Logger) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			warmEventIndex(ctx, duke, idx, log)
		}
	}
}
