// Package corpus builds and serializes the per-kind line corpora and their
// translation stubs, and reconstructs the corpus key for a text value so the
// read and write paths always agree on membership.
package corpus

import (
	"strings"

	"rpgscribe/internal/variant"
)

// BreakToken replaces embedded line breaks so every corpus entry occupies
// exactly one physical line in the serialized file.
const BreakToken = `\#`

// Corpus is an ordered collection of extracted lines for one kind. Most
// kinds deduplicate on insert; the script corpus keeps duplicates and empty
// lines because its entries are index-aligned with the script list.
type Corpus struct {
	name   string
	dedupe bool
	lines  []string
	seen   map[string]struct{}
}

// New creates a deduplicating corpus. Insertion order is first-occurrence
// order; empty lines are dropped.
func New(name string) *Corpus {
	return &Corpus{name: name, dedupe: true, seen: make(map[string]struct{})}
}

// NewOrdered creates a corpus that keeps every appended line, duplicates and
// empties included.
func NewOrdered(name string) *Corpus {
	return &Corpus{name: name}
}

// Name returns the corpus kind name.
func (c *Corpus) Name() string { return c.name }

// Add inserts one already-escaped line, honoring the corpus mode.
func (c *Corpus) Add(line string) {
	if !c.dedupe {
		c.lines = append(c.lines, line)
		return
	}
	if line == "" {
		return
	}
	if _, ok := c.seen[line]; ok {
		return
	}
	c.seen[line] = struct{}{}
	c.lines = append(c.lines, line)
}

// Lines returns the corpus entries in insertion order.
func (c *Corpus) Lines() []string { return c.lines }

// Len reports the entry count.
func (c *Corpus) Len() int { return len(c.lines) }

// Escape folds embedded line breaks into BreakToken.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", BreakToken)
}

// Unescape restores real line breaks in a translated line.
func Unescape(s string) string {
	return strings.ReplaceAll(s, BreakToken, "\n")
}

// Key builds the corpus key for a raw text value: variant normalization, then
// line-break escaping. Both passes must derive keys through this function.
func Key(id variant.ID, text string) string {
	return Escape(variant.Normalize(id, text))
}
