// Package main regenerates the reference data files the resolvers depend
// on: event groups and categories scraped from the Duke calendar URL
// builder, and curriculum subjects from the streamer list-of-values
// endpoint. Run it occasionally; the lists change a few times a year.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dukebot/dukebot-go/internal/config"
	"github.com/dukebot/dukebot-go/internal/dukeapi"
	"github.com/dukebot/dukebot-go/internal/logger"
	"github.com/dukebot/dukebot-go/internal/refdata"
	"github.com/dukebot/dukebot-go/internal/sliceutil"
)

// urlBuilderURL serves the calendar's filter form, whose <select> elements
// carry the canonical group and category names.
const urlBuilderURL = "https://urlbuilder.calendar.duke.edu/"

func main() {
	outDir := flag.String("out", "./data", "directory to write the reference files into")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(cfg.LogLevel, os.Stderr)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.WithError(err).Fatal("Failed to create output directory")
	}

	collector := &collector{
		duke: dukeapi.NewClient(dukeapi.Options{
			Token:      cfg.DukeAPIToken,
			Timeout:    cfg.APITimeout,
			MaxRetries: cfg.APIMaxRetries,
			Logger:     log.WithModule("dukeapi"),
		}),
		log: log,
	}

	ctx := context.Background()
	failed := false

	groups, categories, err := collector.collectFacets(ctx, urlBuilderURL)
	if err != nil {
		log.WithError(err).Error("Failed to collect groups and categories")
		failed = true
	} else {
		if err := writeLines(filepath.Join(*outDir, refdata.GroupsFile), groups); err != nil {
			log.WithError(err).Error("Failed to write groups file")
			failed = true
		}
		if err := writeLines(filepath.Join(*outDir, refdata.CategoriesFile), categories); err != nil {
			log.WithError(err).Error("Failed to write categories file")
			failed = true
		}
		log.WithFields(map[string]any{
			"groups":     len(groups),
			"categories": len(categories),
		}).Info("Calendar facets collected")
	}

	subjects, err := collector.collectSubjects(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to collect subjects")
		failed = true
	} else {
		if err := writeLines(filepath.Join(*outDir, refdata.SubjectsFile), subjects); err != nil {
			log.WithError(err).Error("Failed to write subjects file")
			failed = true
		}
		log.WithField("subjects", len(subjects)).Info("Subjects collected")
	}

	if failed {
		os.Exit(1)
	}
}

type collector struct {
	duke *dukeapi.Client
	log  *logger.Logger
}

// collectFacets scrapes the group and category <select> option texts from
// the calendar URL builder page.
func (c *collector) collectFacets(ctx context.Context, pageURL string) (groups, categories []string, err error) {
	body, err := c.duke.GetRaw(ctx, pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch url builder page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse url builder page: %w", err)
	}

	groups = selectOptions(doc, "select#groups")
	categories = selectOptions(doc, "select#categories")
	if len(groups) == 0 && len(categories) == 0 {
		return nil, nil, fmt.Errorf("no group or category options found, page layout may have changed")
	}
	return groups, categories, nil
}

// selectOptions returns the trimmed, deduplicated option texts of the
// matched <select>, skipping blanks and the "All" placeholder which is a
// query sentinel rather than a real value.
func selectOptions(doc *goquery.Document, selector string) []string {
	var values []string
	doc.Find(selector + " option").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" || text == "All" {
			return
		}
		values = append(values, text)
	})
	return sliceutil.Deduplicate(values, func(s string) string { return s })
}

// collectSubjects fetches the SUBJECT list of values and renders each entry
// as "CODE - Description", the exact format the curriculum API expects back.
func (c *collector) collectSubjects(ctx context.Context) ([]string, error) {
	values, err := c.duke.SubjectValues(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(values))
	for _, v := range values {
		lines = append(lines, fmt.Sprintf("%s - %s", v.Code, v.Desc))
	}
	return sliceutil.Deduplicate(lines, func(s string) string { return s }), nil
}

func writeLines(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}
