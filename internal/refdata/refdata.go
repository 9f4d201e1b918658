// Package refdata loads the static reference lists the Duke APIs require:
// curriculum subjects, event groups, and event categories. The lists are
// flat text files with one canonical string per line, produced by cmd/collect.
//
// Lists are loaded once at startup and treated as immutable. Consumers get
// them injected via Store rather than reading package-level state, so tests
// can supply synthetic lists.
package refdata

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukebot/dukebot-go/internal/logger"
)

// Canonical file names inside the data directory.
const (
	SubjectsFile   = "subjects.txt"
	GroupsFile     = "groups.txt"
	CategoriesFile = "categories.txt"
)

// Store holds the loaded reference lists.
type Store struct {
	Subjects   []string
	Groups     []string
	Categories []string
}

// Load reads a reference list file and returns its non-empty,
// whitespace-trimmed lines in file order. No dedupe, no per-line validation.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}

	return lines, nil
}

// LoadStore loads all three reference lists from dir. A missing or unreadable
// file is downgraded to a warning and an empty list: resolvers then return no
// matches for that kind instead of the process failing to start.
func LoadStore(dir string, log *logger.Logger) *Store {
	return &Store{
		Subjects:   loadOrWarn(filepath.Join(dir, SubjectsFile), log),
		Groups:     loadOrWarn(filepath.Join(dir, GroupsFile), log),
		Categories: loadOrWarn(filepath.Join(dir, CategoriesFile), log),
	}
}

func loadOrWarn(path string, log *logger.Logger) []string {
	lines, err := Load(path)
	if err != nil {
		if log != nil {
			log.WithError(err).WithField("path", path).Warn("Reference data file not loaded, lookups will return no matches")
		}
		return []string{}
	}
	return lines
}

// Counts returns the sizes of the three lists, used by the readiness probe.
func (s *Store) Counts() (subjects, groups, categories int) {
	return len(s.Subjects), len(s.Groups), len(s.Categories)
}
