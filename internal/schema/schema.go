// Package schema defines the per-category traversal over decoded documents.
// Each walker visits every text-bearing field in a fixed order and hands the
// caller a Slot: a live get/set handle into the graph. Extraction and
// reinsertion run the identical walk, so classification can never drift
// between the two passes.
package schema

import (
	"fmt"

	"rpgscribe/internal/graph"
)

// Field names used by the serialized documents.
const (
	fieldDisplayName = "display_name"
	fieldEvents      = "events"
	fieldPages       = "pages"
	fieldList        = "list"
	fieldCode        = "code"
	fieldParameters  = "parameters"
	fieldGameTitle   = "game_title"
	fieldCurrency    = "currency_unit"
	fieldTerms       = "terms"
)

// entityFields are the flat-entity text fields, each independently optional.
var entityFields = []string{"name", "nickname", "description", "note"}

// typeArrayFields are the vocabulary document's type-name lists.
var typeArrayFields = []string{"skill_types", "weapon_types", "armor_types"}

// Shape distinguishes the two database entity layouts.
type Shape int

const (
	// ShapeFlat entities expose text fields directly.
	ShapeFlat Shape = iota
	// ShapePaged entities expose pages owning command lists (or a single
	// direct command list).
	ShapePaged
)

// Slot is a handle to one text-bearing position in a document. Set preserves
// the original representation: a value sourced from a raw byte buffer is
// re-encoded to bytes.
type Slot struct {
	unit graph.TextUnit
	set  func(string) error
}

// Text returns the decoded text and its representation tag.
func (s Slot) Text() graph.TextUnit { return s.unit }

// Set replaces the underlying field value.
func (s Slot) Set(text string) error { return s.set(text) }

// VisitFunc receives each text slot in traversal order.
type VisitFunc func(Slot) error

// Navigator walks documents of every category using one text codec.
type Navigator struct {
	text *graph.TextCodec
}

// NewNavigator creates a Navigator over the given text codec.
func NewNavigator(text *graph.TextCodec) *Navigator {
	return &Navigator{text: text}
}

// slotAt builds a Slot over list[i] if it currently holds text.
func (n *Navigator) slotAt(list []any, i int) (Slot, bool) {
	unit, ok := n.text.Unit(list[i])
	if !ok {
		return Slot{}, false
	}
	raw := unit.Raw
	return Slot{unit: unit, set: func(t string) error {
		return n.store(list, i, t, raw)
	}}, true
}

// slotField builds a Slot over m[key] if the field exists and holds text.
func (n *Navigator) slotField(m map[string]any, key string) (Slot, bool) {
	v, ok := m[key]
	if !ok {
		return Slot{}, false
	}
	unit, ok := n.text.Unit(v)
	if !ok {
		return Slot{}, false
	}
	raw := unit.Raw
	return Slot{unit: unit, set: func(t string) error {
		if raw {
			b, err := n.text.EncodeBytes(t)
			if err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
			m[key] = b
			return nil
		}
		m[key] = t
		return nil
	}}, true
}

func (n *Navigator) store(list []any, i int, text string, raw bool) error {
	if raw {
		b, err := n.text.EncodeBytes(text)
		if err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
		list[i] = b
		return nil
	}
	list[i] = text
	return nil
}
