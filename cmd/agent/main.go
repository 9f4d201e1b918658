// Package main provides a command-line interface to the DukeBot agent,
// for local use and smoke testing without running the HTTP server.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dukebot/dukebot-go/internal/agent"
	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/dukeapi"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/rank"
	"github.com/dukebot/dukebot-go/internal/refdata"
	"github.com/dukebot/dukebot-go/internal/resolve"
	"github.com/dukebot/dukebot-go/internal/websearch"
)

// demoQueries exercise the format resolution path end to end: each one uses
// a colloquial name ("cs", "aipi", "AI") that the agent must resolve to the
// canonical format before fetching.
var demoQueries = []string{
	"What events are happening at Duke this week?",
	"Get me detailed information about the AIPI courses",
	"Tell me about Computer Science classes",
	"Are there any AI events at Duke?",
	"What cs courses are available?",
	"Tell me about aipi program",
}

func main() {
	demo := flag.Bool("demo", false, "run the built-in demo queries and exit")
	dataDir := flag.String("data", "", "reference data directory (overrides DUKEBOT_DATA_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	// Logs go to stderr so stdout stays clean for answers
	log := logger.NewWithWriter(cfg.LogLevel, os.Stderr)

	a, err := buildAgent(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create agent")
	}

	if *demo {
		runDemo(a)
		return
	}
	runInteractive(a)
}

func buildAgent(cfg *config.Config, log *logger.Logger) (*agent.Agent, error) {
	store := refdata.LoadStore(cfg.DataDir, log)
	resolver := resolve.New(store, nil)

	duke := dukeapi.NewClient(dukeapi.Options{
		Token:      cfg.DukeAPIToken,
		Timeout:    cfg.APITimeout,
		MaxRetries: cfg.APIMaxRetries,
		Logger:     log.WithModule("dukeapi"),
	})

	var web *websearch.Client
	if cfg.HasWebSearch() {
		var err error
		web, err = websearch.NewClient(websearch.Options{APIKey: cfg.SerpAPIKey})
		if err != nil {
			log.WithError(err).Warn("Web search tool disabled")
			web = nil
		}
	}

	// Event keyword index, best effort: the CLI is still useful without it
	eventIndex := rank.NewIndex(log.WithModule("rank"))
	warmCtx, cancel := context.WithTimeout(context.Background(), config.APIRequest)
	defer cancel()
	if body, err := duke.FetchEvents(warmCtx, dukeapi.DefaultEventsRequest()); err == nil {
		if events, err := rank.ParseEventsFeed(body); err == nil {
			_ = eventIndex.Initialize(events)
		}
	}

	reg := agent.NewRegistry()
	if err := agent.RegisterAll(reg, agent.Deps{
		Resolver: resolver,
		Duke:     duke,
		Web:      web,
		Events:   eventIndex,
	}); err != nil {
		return nil, err
	}

	return agent.New(agent.Options{
		APIKey:        cfg.OpenAIAPIKey,
		Model:         cfg.OpenAIModel,
		Registry:      reg,
		MaxIterations: cfg.AgentMaxIterations,
		Logger:        log.WithModule("agent"),
	})
}

func runDemo(a *agent.Agent) {
	for _, query := range demoQueries {
		fmt.Printf("\nQuery: %s\n", query)
		fmt.Printf("Response: %s\n", ask(a, query))
		fmt.Println(strings.Repeat("-", 80))
	}
}

func runInteractive(a *agent.Agent) {
	fmt.Println("DukeBot agent. Ask about Duke events, courses, or people. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			return
		}
		fmt.Println(ask(a, query))
	}
}

func ask(a *agent.Agent, query string) string {
	ctx, cancel := context.WithTimeout(context.Background(), config.AgentTurn)
	defer cancel()
	return a.ProcessQuery(ctx, query)
}
