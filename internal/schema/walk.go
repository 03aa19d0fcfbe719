package schema

import (
	"rpgscribe/internal/graph"
	"rpgscribe/internal/opcode"
)

// WalkMap traverses one map document: the display name, then every event
// page's command list in event order. Absent sub-structures are skipped.
func (n *Navigator) WalkMap(doc map[string]any, visit VisitFunc) error {
	if slot, ok := n.slotField(doc, fieldDisplayName); ok {
		if err := visit(slot); err != nil {
			return err
		}
	}

	events, ok := graph.ListField(doc, fieldEvents)
	if !ok {
		return nil
	}
	for _, ev := range events {
		event, ok := graph.Map(ev)
		if !ok {
			continue
		}
		pages, ok := graph.ListField(event, fieldPages)
		if !ok {
			continue
		}
		if err := n.walkPages(opcode.CategoryMap, pages, visit); err != nil {
			return err
		}
	}
	return nil
}

// WalkEntities traverses one database entity list. The first element is a
// placeholder and is skipped. Flat entities expose text fields directly;
// paged entities expose pages owning command lists, or a single direct
// command list.
func (n *Navigator) WalkEntities(list []any, shape Shape, visit VisitFunc) error {
	for i, e := range list {
		if i == 0 {
			continue
		}
		entity, ok := graph.Map(e)
		if !ok {
			continue
		}

		if shape == ShapeFlat {
			for _, field := range entityFields {
				slot, ok := n.slotField(entity, field)
				if !ok {
					continue
				}
				if err := visit(slot); err != nil {
					return err
				}
			}
			continue
		}

		if pages, ok := graph.ListField(entity, fieldPages); ok {
			if err := n.walkPages(opcode.CategoryDatabase, pages, visit); err != nil {
				return err
			}
			continue
		}
		if cmds, ok := graph.ListField(entity, fieldList); ok {
			merged, err := n.walkCommandList(opcode.CategoryDatabase, cmds, visit)
			if err != nil {
				return err
			}
			entity[fieldList] = merged
		}
	}
	return nil
}

// WalkVocabulary traverses the vocabulary document: the game title and
// currency unit, the type-name lists, then the terms table in canonical slot
// order. Term entries may each be one text value or a list of text values.
func (n *Navigator) WalkVocabulary(doc map[string]any, visit VisitFunc) error {
	for _, field := range []string{fieldGameTitle, fieldCurrency} {
		slot, ok := n.slotField(doc, field)
		if !ok {
			continue
		}
		if err := visit(slot); err != nil {
			return err
		}
	}

	for _, field := range typeArrayFields {
		names, ok := graph.ListField(doc, field)
		if !ok {
			continue
		}
		for i := range names {
			slot, ok := n.slotAt(names, i)
			if !ok {
				continue
			}
			if err := visit(slot); err != nil {
				return err
			}
		}
	}

	terms, ok := graph.MapField(doc, fieldTerms)
	if !ok {
		return nil
	}
	for _, name := range opcode.VocabSlots {
		if opcode.ClassifySlot(name) != opcode.VocabSlot {
			continue
		}
		entry, ok := terms[name]
		if !ok {
			continue
		}
		if values, isList := graph.List(entry); isList {
			for i := range values {
				slot, ok := n.slotAt(values, i)
				if !ok {
					continue
				}
				if err := visit(slot); err != nil {
					return err
				}
			}
			continue
		}
		slot, ok := n.slotField(terms, name)
		if !ok {
			continue
		}
		if err := visit(slot); err != nil {
			return err
		}
	}
	return nil
}

// GameTitle reads the vocabulary document's title field for variant sniffing.
func (n *Navigator) GameTitle(doc map[string]any) string {
	unit, ok := n.text.Unit(doc[fieldGameTitle])
	if !ok {
		return ""
	}
	return unit.Text
}

func (n *Navigator) walkPages(cat opcode.Category, pages []any, visit VisitFunc) error {
	for _, p := range pages {
		page, ok := graph.Map(p)
		if !ok {
			continue
		}
		list, ok := graph.ListField(page, fieldList)
		if !ok {
			continue
		}
		merged, err := n.walkCommandList(cat, list, visit)
		if err != nil {
			return err
		}
		page[fieldList] = merged
	}
	return nil
}
