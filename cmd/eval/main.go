// Package main grades the agent's answers. Each evaluation prompt runs
// through the agent, then a Gemini judge scores the answer on helpfulness,
// relevance, coherence, and completeness, each out of 5.
package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/dukebot/dukebot-go/internal/agent"
	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/dukeapi"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/refdata"
	"github.com/dukebot/dukebot-go/internal/resolve"
	"github.com/dukebot/dukebot-go/internal/websearch"
)

var evalPrompts = []string{
	"Tell me about the AI MEng program at Duke Pratt",
	"Get me detailed information about the AIPI courses",
	"Tell me about Computer Science classes",
	"Are there any AI events at Duke?",
	"What cs courses are available?",
	"Tell me about the MEng AIPI program",
}

const judgeInstruction = "You are an expert judge evaluating the quality of AI-generated answers. " +
	"Grade the responses using the following categories out of 5 and use parenthesis to indicate the grade " +
	"in this format (x/5) where x is the grade: helpfulness, relevance, coherence, and completeness."

// grades holds the four category scores, each out of 5.
type grades struct {
	Helpfulness  int
	Relevance    int
	Coherence    int
	Completeness int
}

// overall renders the mean score as a percentage.
func (g grades) overall() float64 {
	return float64(g.Helpfulness+g.Relevance+g.Coherence+g.Completeness) / 4.0 / 5.0 * 100
}

var gradePattern = regexp.MustCompile(`\((\d)\s*/\s*5\)`)

// parseGrades extracts the four (x/5) scores from the judge's text, in the
// order the judge instruction requests them.
func parseGrades(text string) (grades, error) {
	matches := gradePattern.FindAllStringSubmatch(text, -1)
	if len(matches) < 4 {
		return grades{}, fmt.Errorf("expected 4 grades in judge response, found %d", len(matches))
	}

	scores := make([]int, 4)
	for i := 0; i < 4; i++ {
		n, err := strconv.Atoi(matches[i][1])
		if err != nil {
			return grades{}, fmt.Errorf("invalid grade %q: %w", matches[i][1], err)
		}
		scores[i] = n
	}
	return grades{
		Helpfulness:  scores[0],
		Relevance:    scores[1],
		Coherence:    scores[2],
		Completeness: scores[3],
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(cfg.LogLevel, os.Stderr)

	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY not found in environment variables")
	}

	ctx := context.Background()
	judge, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey})
	if err != nil {
		log.WithError(err).Fatal("Failed to create judge client")
	}

	a, err := buildAgent(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create agent")
	}

	var total float64
	graded := 0

	for _, prompt := range evalPrompts {
		fmt.Printf("\nPrompt: %s\n", prompt)

		turnCtx, cancel := context.WithTimeout(ctx, config.AgentTurn)
		answer := a.ProcessQuery(turnCtx, prompt)
		cancel()
		fmt.Printf("Response: %s\n", answer)

		judgePrompt := fmt.Sprintf("%s\nPrompt given to LLM: %s\nResponse from LLM: %s",
			judgeInstruction, prompt, answer)
		resp, err := judge.Models.GenerateContent(ctx, cfg.GeminiJudgeModel, genai.Text(judgePrompt), nil)
		if err != nil {
			log.WithError(err).WithField("prompt", prompt).Error("Judge call failed")
			continue
		}

		text := resp.Text()
		fmt.Println(text)

		g, err := parseGrades(text)
		if err != nil {
			log.WithError(err).WithField("prompt", prompt).Error("Failed to parse judge grades")
			continue
		}

		fmt.Printf("Overall Grade: %.1f%%\n", g.overall())
		fmt.Println(strings.Repeat("-", 80))
		total += g.overall()
		graded++
	}

	if graded == 0 {
		log.Fatal("No prompts were graded")
	}
	fmt.Printf("\nAverage over %d prompts: %.1f%%\n", graded, total/float64(graded))
}

func buildAgent(cfg *config.Config, log *logger.Logger) (*agent.Agent, error) {
	store := refdata.LoadStore(cfg.DataDir, log)

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
			web = nil
		}
	}

	reg := agent.NewRegistry()
	if err := agent.RegisterAll(reg, agent.Deps{
		Resolver: resolve.New(store, nil),
		Duke:     duke,
		Web:      web,
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
