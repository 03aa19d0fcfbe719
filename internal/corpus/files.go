package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMismatch reports a corpus/translation pair whose line counts differ.
// Legacy implementations degraded silently here; this one surfaces it and
// skips the affected kind.
var ErrMismatch = errors.New("corpus and translation line counts differ")

// SourceFile returns the corpus file path for a kind.
func SourceFile(dir, name string) string {
	return filepath.Join(dir, name+".txt")
}

// TranslationFile returns the translation stub path for a kind.
func TranslationFile(dir, name string) string {
	return filepath.Join(dir, name+".trans.txt")
}

// WriteFiles serializes the corpus and an empty, line-count-aligned
// translation stub next to it.
func WriteFiles(dir string, c *Corpus) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}
	if err := writeLines(SourceFile(dir, c.name), c.lines); err != nil {
		return err
	}
	return writeLines(TranslationFile(dir, c.name), make([]string, len(c.lines)))
}

// WriteTranslations rewrites a kind's translation file in place.
func WriteTranslations(dir, name string, lines []string) error {
	return writeLines(TranslationFile(dir, name), lines)
}

// ReadPair loads a corpus file and its translation counterpart. The pair must
// be line-count aligned; a mismatch returns ErrMismatch.
func ReadPair(dir, name string) (src, trans []string, err error) {
	src, err = readLines(SourceFile(dir, name))
	if err != nil {
		return nil, nil, err
	}
	trans, err = readLines(TranslationFile(dir, name))
	if err != nil {
		return nil, nil, err
	}
	if len(src) != len(trans) {
		return nil, nil, fmt.Errorf("%s: %d source vs %d translated lines: %w",
			name, len(src), len(trans), ErrMismatch)
	}
	return src, trans, nil
}

// NewIndex pairs corpus lines with their translations by index. Empty
// translations are omitted so untranslated entries pass through as source.
func NewIndex(src, trans []string) map[string]string {
	index := make(map[string]string, len(src))
	for i, s := range src {
		if s == "" || trans[i] == "" {
			continue
		}
		if _, ok := index[s]; ok {
			continue
		}
		index[s] = trans[i]
	}
	return index
}

func writeLines(path string, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write corpus file: %w", err)
	}
	return nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.Split(text, "\n"), nil
}
