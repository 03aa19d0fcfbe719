// Package inject implements the write path: re-merge each original document,
// look every text slot up in the translation index, replace hits, and encode
// the result. The walk is the same code the read path used, so keys always
// reconstruct identically.
package inject

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"rpgscribe/internal/codec"
	"rpgscribe/internal/corpus"
	"rpgscribe/internal/filewalker"
	"rpgscribe/internal/graph"
	"rpgscribe/internal/schema"
	"rpgscribe/internal/script"
	"rpgscribe/internal/textutil"
	"rpgscribe/internal/variant"
	"rpgscribe/internal/worker"

	"github.com/rs/zerolog/log"
)

// Injector runs the write path over one data directory.
type Injector struct {
	codec   codec.Codec
	nav     *schema.Navigator
	text    *graph.TextCodec
	workers int
}

// New creates an Injector.
func New(c codec.Codec, text *graph.TextCodec, workers int) *Injector {
	return &Injector{
		codec:   c,
		nav:     schema.NewNavigator(text),
		text:    text,
		workers: workers,
	}
}

// kindIndex holds one kind's translation lookup state.
type kindIndex struct {
	index   map[string]string // corpus key -> translated line
	trans   []string          // script corpus translations, index-aligned with the bundle
	missing bool              // no corpus pair: documents pass through unchanged
	bad     bool              // alignment mismatch: kind is skipped
}

// Run rewrites every document under dataDir with translations from corpusDir
// and writes the re-encoded documents into outDir. Untranslated entries pass
// through as source text. A corpus/translation alignment mismatch skips the
// whole kind and is surfaced in the returned error.
func (i *Injector) Run(ctx context.Context, dataDir, corpusDir, outDir string) error {
	entries, err := filewalker.Discover(dataDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	variantID := i.detectVariant(entries)

	indexes := make(map[string]*kindIndex)
	badKinds := 0
	for _, entry := range entries {
		if _, ok := indexes[entry.Kind]; ok {
			continue
		}
		ki := i.loadKind(corpusDir, entry.Kind)
		if ki.bad {
			badKinds++
		}
		indexes[entry.Kind] = ki
	}

	pool := worker.NewPool(i.workers, func(ctx context.Context, entry filewalker.Entry) (struct{}, error) {
		ki := indexes[entry.Kind]
		if ki.bad {
			return struct{}{}, nil
		}
		return struct{}{}, i.injectDocument(entry, ki, variantID, outDir)
	})
	tasks := pool.Execute(ctx, entries)

	failed := 0
	for _, task := range tasks {
		if task.Err != nil {
			failed++
		}
	}
	if failed > 0 || badKinds > 0 {
		return fmt.Errorf("reinsertion finished with %d failed documents and %d misaligned kinds",
			failed, badKinds)
	}
	return nil
}

// loadKind reads one kind's corpus/translation pair. A missing pair means no
// translations for that kind; an alignment mismatch marks the kind bad.
func (i *Injector) loadKind(corpusDir, kind string) *kindIndex {
	src, trans, err := corpus.ReadPair(corpusDir, kind)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("kind", kind).Msg("No corpus pair found, documents pass through untranslated")
		return &kindIndex{index: map[string]string{}, missing: true}
	case errors.Is(err, corpus.ErrMismatch):
		log.Error().Err(err).Str("kind", kind).Msg("Corpus alignment mismatch, kind skipped")
		return &kindIndex{bad: true}
	default:
		log.Error().Err(err).Str("kind", kind).Msg("Corpus pair unreadable, kind skipped")
		return &kindIndex{bad: true}
	}

	return &kindIndex{
		index: corpus.NewIndex(src, trans),
		trans: trans,
	}
}

func (i *Injector) detectVariant(entries []filewalker.Entry) variant.ID {
	for _, entry := range entries {
		if entry.Category != filewalker.CategoryVocabulary {
			continue
		}
		root, err := i.decode(entry.Path)
		if err != nil {
			log.Error().Err(err).Msg("Variant detection unavailable")
			return variant.Identity
		}
		if m, ok := graph.Map(root); ok {
			return variant.Detect(i.nav.GameTitle(m))
		}
		return variant.Identity
	}
	return variant.Identity
}

func (i *Injector) injectDocument(entry filewalker.Entry, ki *kindIndex, variantID variant.ID, outDir string) error {
	root, err := i.decode(entry.Path)
	if err != nil {
		return err
	}

	if entry.Category == filewalker.CategoryScripts {
		bundle, ok := graph.List(root)
		if !ok {
			return fmt.Errorf("%s: script bundle is not a list", entry.Path)
		}
		if !ki.missing {
			if err := script.Inject(bundle, i.text, ki.trans); err != nil {
				return fmt.Errorf("%s: %w", entry.Path, err)
			}
		}
		return i.writeOut(entry, root, outDir)
	}

	replace := func(slot schema.Slot) error {
		key := corpus.Key(variantID, slot.Text().Text)
		if key == "" {
			return nil
		}
		translated, ok := ki.index[key]
		if !ok || translated == "" {
			return nil
		}
		if missing := corpus.AuditControls(key, translated); len(missing) > 0 {
			log.Warn().
				Str("line", textutil.Truncate(key, 60)).
				Strs("missing", missing).
				Msg("Translation drops control sequences")
		}
		return slot.Set(corpus.Unescape(translated))
	}

	switch entry.Category {
	case filewalker.CategoryMap:
		doc, ok := graph.Map(root)
		if !ok {
			return fmt.Errorf("%s: map document is not a map", entry.Path)
		}
		err = i.nav.WalkMap(doc, replace)
	case filewalker.CategoryDatabase:
		list, ok := graph.List(root)
		if !ok {
			return fmt.Errorf("%s: entity document is not a list", entry.Path)
		}
		err = i.nav.WalkEntities(list, entry.Shape, replace)
	case filewalker.CategoryVocabulary:
		doc, ok := graph.Map(root)
		if !ok {
			return fmt.Errorf("%s: vocabulary document is not a map", entry.Path)
		}
		err = i.nav.WalkVocabulary(doc, replace)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", entry.Path, err)
	}

	return i.writeOut(entry, root, outDir)
}

func (i *Injector) writeOut(entry filewalker.Entry, root any, outDir string) error {
	data, err := i.codec.Encode(root)
	if err != nil {
		return fmt.Errorf("%s: %w", entry.Path, err)
	}
	out := filepath.Join(outDir, filepath.Base(entry.Path))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (i *Injector) decode(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	root, err := i.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}
