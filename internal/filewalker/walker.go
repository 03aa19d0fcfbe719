// Package filewalker discovers serialized game documents and assigns each to
// its processing category. Discovery order is filename sort order, which
// fixes the corpus insertion order across runs.
package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"rpgscribe/internal/schema"

	"github.com/rs/zerolog/log"
)

// DocExt is the serialized document extension.
const DocExt = ".rsd"

// Category tags a discovered document with its traversal family.
type Category int

const (
	CategoryMap Category = iota
	CategoryDatabase
	CategoryVocabulary
	CategoryScripts
)

// Reserved kind names.
const (
	KindMaps    = "Maps"
	KindSystem  = "System"
	KindScripts = "Scripts"
)

// Entry is one discovered document.
type Entry struct {
	Path     string
	Kind     string // corpus file stem; all maps share KindMaps
	Category Category
	Shape    schema.Shape // meaningful for CategoryDatabase only
}

var mapStem = regexp.MustCompile(`^Map\d+$`)

// databaseKinds maps database file stems to their entity shape.
var databaseKinds = map[string]schema.Shape{
	"Actors":       schema.ShapeFlat,
	"Classes":      schema.ShapeFlat,
	"Skills":       schema.ShapeFlat,
	"Items":        schema.ShapeFlat,
	"Weapons":      schema.ShapeFlat,
	"Armors":       schema.ShapeFlat,
	"Enemies":      schema.ShapeFlat,
	"States":       schema.ShapeFlat,
	"Troops":       schema.ShapePaged,
	"CommonEvents": schema.ShapePaged,
}

// Discover lists the recognized documents under root in filename sort order.
// Unrecognized files are skipped.
func Discover(root string) ([]Entry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []Entry

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), DocExt) {
			return nil
		}

		entry, ok := categorize(path)
		if !ok {
			log.Debug().Str("path", path).Msg("Unrecognized document name, skipping")
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered documents")
	return entries, nil
}

func categorize(path string) (Entry, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch {
	case mapStem.MatchString(stem):
		return Entry{Path: path, Kind: KindMaps, Category: CategoryMap}, true
	case stem == KindSystem:
		return Entry{Path: path, Kind: KindSystem, Category: CategoryVocabulary}, true
	case stem == KindScripts:
		return Entry{Path: path, Kind: KindScripts, Category: CategoryScripts}, true
	}
	if shape, ok := databaseKinds[stem]; ok {
		return Entry{Path: path, Kind: stem, Category: CategoryDatabase, Shape: shape}, true
	}
	return Entry{}, false
}
