// Package extract implements the read path: decode every document, walk it,
// and fold the text into per-kind corpora with paired translation stubs.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rpgscribe/internal/codec"
	"rpgscribe/internal/corpus"
	"rpgscribe/internal/filewalker"
	"rpgscribe/internal/graph"
	"rpgscribe/internal/schema"
	"rpgscribe/internal/script"
	"rpgscribe/internal/variant"
	"rpgscribe/internal/worker"

	"github.com/rs/zerolog/log"
)

// ErrMissingVocabulary reports an absent vocabulary document. Only the
// vocabulary kind is affected; the rest of the run proceeds.
var ErrMissingVocabulary = errors.New("vocabulary document not found")

// Extractor runs the read path over one data directory.
type Extractor struct {
	codec   codec.Codec
	nav     *schema.Navigator
	text    *graph.TextCodec
	workers int
}

// New creates an Extractor.
func New(c codec.Codec, text *graph.TextCodec, workers int) *Extractor {
	return &Extractor{
		codec:   c,
		nav:     schema.NewNavigator(text),
		text:    text,
		workers: workers,
	}
}

// docLines is one document's contribution to its kind's corpus, in
// traversal order.
type docLines struct {
	kind    string
	ordered bool // script corpus: keep duplicates and empties
	lines   []string
}

// Run extracts every document under dataDir and writes one corpus file plus
// one empty translation stub per kind into outDir. Documents are processed in
// parallel; corpus insertion follows filename sort order, so output is
// byte-identical across runs. Per-document failures are logged and isolated;
// a missing vocabulary document skips only that kind but still surfaces in
// the returned error.
func (e *Extractor) Run(ctx context.Context, dataDir, outDir string) error {
	entries, err := filewalker.Discover(dataDir)
	if err != nil {
		return err
	}

	variantID, vocabErr := e.detectVariant(entries)
	if vocabErr != nil {
		log.Error().Err(vocabErr).Msg("Variant detection unavailable")
	}

	pool := worker.NewPool(e.workers, func(ctx context.Context, entry filewalker.Entry) (docLines, error) {
		return e.extractDocument(entry, variantID)
	})
	tasks := pool.Execute(ctx, entries)

	corpora := make(map[string]*corpus.Corpus)
	var kindOrder []string
	failed := 0

	for _, task := range tasks {
		if task.Err != nil {
			failed++
			continue
		}
		c, ok := corpora[task.Result.kind]
		if !ok {
			if task.Result.ordered {
				c = corpus.NewOrdered(task.Result.kind)
			} else {
				c = corpus.New(task.Result.kind)
			}
			corpora[task.Result.kind] = c
			kindOrder = append(kindOrder, task.Result.kind)
		}
		for _, line := range task.Result.lines {
			c.Add(line)
		}
	}

	for _, kind := range kindOrder {
		c := corpora[kind]
		if err := corpus.WriteFiles(outDir, c); err != nil {
			return fmt.Errorf("kind %s: %w", kind, err)
		}
		log.Info().Str("kind", kind).Int("lines", c.Len()).Msg("Corpus written")
	}

	var runErr error
	if failed > 0 {
		runErr = fmt.Errorf("extraction finished with %d failed documents", failed)
	}
	return errors.Join(runErr, vocabErr)
}

// detectVariant decodes the vocabulary document and sniffs the game title.
// A missing document surfaces ErrMissingVocabulary and falls back to the
// identity variant.
func (e *Extractor) detectVariant(entries []filewalker.Entry) (variant.ID, error) {
	for _, entry := range entries {
		if entry.Category != filewalker.CategoryVocabulary {
			continue
		}
		doc, err := e.decode(entry.Path)
		if err != nil {
			return variant.Identity, err
		}
		m, ok := graph.Map(doc)
		if !ok {
			return variant.Identity, fmt.Errorf("%s: vocabulary document is not a map", entry.Path)
		}
		title := e.nav.GameTitle(m)
		id := variant.Detect(title)
		if id != variant.Identity {
			log.Info().Str("title", title).Msg("Legacy game variant detected")
		}
		return id, nil
	}
	return variant.Identity, ErrMissingVocabulary
}

func (e *Extractor) extractDocument(entry filewalker.Entry, variantID variant.ID) (docLines, error) {
	root, err := e.decode(entry.Path)
	if err != nil {
		return docLines{}, err
	}

	result := docLines{kind: entry.Kind}

	if entry.Category == filewalker.CategoryScripts {
		bundle, ok := graph.List(root)
		if !ok {
			return docLines{}, fmt.Errorf("%s: script bundle is not a list", entry.Path)
		}
		c := corpus.NewOrdered(entry.Kind)
		if err := script.Extract(bundle, e.text, c); err != nil {
			return docLines{}, fmt.Errorf("%s: %w", entry.Path, err)
		}
		result.ordered = true
		result.lines = c.Lines()
		return result, nil
	}

	collect := func(slot schema.Slot) error {
		result.lines = append(result.lines, corpus.Key(variantID, slot.Text().Text))
		return nil
	}

	switch entry.Category {
	case filewalker.CategoryMap:
		doc, ok := graph.Map(root)
		if !ok {
			return docLines{}, fmt.Errorf("%s: map document is not a map", entry.Path)
		}
		err = e.nav.WalkMap(doc, collect)
	case filewalker.CategoryDatabase:
		list, ok := graph.List(root)
		if !ok {
			return docLines{}, fmt.Errorf("%s: entity document is not a list", entry.Path)
		}
		err = e.nav.WalkEntities(list, entry.Shape, collect)
	case filewalker.CategoryVocabulary:
		doc, ok := graph.Map(root)
		if !ok {
			return docLines{}, fmt.Errorf("%s: vocabulary document is not a map", entry.Path)
		}
		err = e.nav.WalkVocabulary(doc, collect)
	}
	if err != nil {
		return docLines{}, fmt.Errorf("%s: %w", entry.Path, err)
	}
	return result, nil
}

func (e *Extractor) decode(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	root, err := e.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}
