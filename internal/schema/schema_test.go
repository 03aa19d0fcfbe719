package schema

import (
	"reflect"
	"testing"

	"rpgscribe/internal/graph"
	"rpgscribe/internal/opcode"
)

func newTestNavigator(t *testing.T) *Navigator {
	t.Helper()
	text, err := graph.NewTextCodec("utf8")
	if err != nil {
		t.Fatalf("NewTextCodec: %v", err)
	}
	return NewNavigator(text)
}

func command(code int, params ...any) map[string]any {
	return map[string]any{
		"code":       int64(code),
		"parameters": append([]any{}, params...),
	}
}

// collect returns a VisitFunc appending each visited text to out.
func collect(out *[]string) VisitFunc {
	return func(s Slot) error {
		*out = append(*out, s.Text().Text)
		return nil
	}
}

func TestMergeSequenceRun(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	list := []any{
		command(401, "Hello"),
		command(401, "World"),
		command(0),
	}

	var got []string
	merged, err := nav.walkCommandList(opcode.CategoryMap, list, collect(&got))
	if err != nil {
		t.Fatalf("walkCommandList: %v", err)
	}

	if len(merged) != 2 {
		t.Fatalf("merged list has %d commands, want 2", len(merged))
	}
	first := merged[0].(map[string]any)
	params := first["parameters"].([]any)
	if params[0] != "Hello\nWorld" {
		t.Errorf("merged parameter = %q, want %q", params[0], "Hello\nWorld")
	}
	if !reflect.DeepEqual(got, []string{"Hello\nWorld"}) {
		t.Errorf("visited = %v, want one merged entry", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	list := []any{
		command(401, "One"),
		command(401, "Two"),
		command(401, "Three"),
		command(102, []any{"Yes", "No"}, int64(0)),
		command(405, "Credits"),
	}

	once, err := nav.walkCommandList(opcode.CategoryMap, list, func(Slot) error { return nil })
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := nav.walkCommandList(opcode.CategoryMap, once, func(Slot) error { return nil })
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second merge changed the list:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestMergeRunEndsAtListEnd(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	list := []any{command(405, "Line A"), command(405, "Line B")}

	var got []string
	merged, err := nav.walkCommandList(opcode.CategoryMap, list, collect(&got))
	if err != nil {
		t.Fatalf("walkCommandList: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("merged list has %d commands, want 1", len(merged))
	}
	if !reflect.DeepEqual(got, []string{"Line A\nLine B"}) {
		t.Errorf("visited = %v", got)
	}
}

func TestMergeRunBrokenByOtherCommand(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	list := []any{
		command(401, "A"),
		command(0),
		command(401, "B"),
	}

	var got []string
	merged, err := nav.walkCommandList(opcode.CategoryMap, list, collect(&got))
	if err != nil {
		t.Fatalf("walkCommandList: %v", err)
	}
	if len(merged) != 3 {
		t.Fatalf("merged list has %d commands, want 3", len(merged))
	}
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("visited = %v, want separate runs", got)
	}
}

func TestMergePreservesByteRepresentation(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	list := []any{
		command(401, []byte("Hello")),
		command(401, []byte("World")),
	}

	merged, err := nav.walkCommandList(opcode.CategoryMap, list, func(s Slot) error {
		if !s.Text().Raw {
			t.Error("merged slot lost its raw-buffer tag")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walkCommandList: %v", err)
	}

	params := merged[0].(map[string]any)["parameters"].([]any)
	raw, ok := params[0].([]byte)
	if !ok {
		t.Fatalf("merged parameter is %T, want []byte", params[0])
	}
	if string(raw) != "Hello\nWorld" {
		t.Errorf("merged parameter = %q", raw)
	}
}

func TestChoiceArrayIndependentEntries(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	list := []any{command(102, []any{"Yes", "No"}, int64(0))}

	var slots []Slot
	if _, err := nav.walkCommandList(opcode.CategoryMap, list, func(s Slot) error {
		slots = append(slots, s)
		return nil
	}); err != nil {
		t.Fatalf("walkCommandList: %v", err)
	}

	if len(slots) != 2 {
		t.Fatalf("visited %d slots, want 2", len(slots))
	}
	if slots[0].Text().Text != "Yes" || slots[1].Text().Text != "No" {
		t.Errorf("visited %q, %q", slots[0].Text().Text, slots[1].Text().Text)
	}

	// Each option is replaceable independently.
	if err := slots[1].Set("Non"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	options := list[0].(map[string]any)["parameters"].([]any)[0].([]any)
	if options[0] != "Yes" || options[1] != "Non" {
		t.Errorf("options = %v, want [Yes Non]", options)
	}
}

func TestStandaloneFilter(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	list := []any{
		command(355, `"Welcome"`),
		command(355, `gold += 100`),
		command(320, int64(1)),
		command(324, "Hero"),
	}

	var got []string
	merged, err := nav.walkCommandList(opcode.CategoryMap, list, collect(&got))
	if err != nil {
		t.Fatalf("walkCommandList: %v", err)
	}
	if len(merged) != 4 {
		t.Fatalf("list shrank to %d commands, want 4", len(merged))
	}
	if !reflect.DeepEqual(got, []string{`"Welcome"`, "Hero"}) {
		t.Errorf("visited = %v", got)
	}
}

func TestWalkMapOrderAndAbsence(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	doc := map[string]any{
		"display_name": "Village",
		"events": []any{
			nil, // deleted event slot
			map[string]any{
				"pages": []any{
					map[string]any{"list": []any{command(401, "Hi")}},
					map[string]any{}, // page without a command list
				},
			},
			map[string]any{}, // event without pages
		},
	}

	var got []string
	if err := nav.WalkMap(doc, collect(&got)); err != nil {
		t.Fatalf("WalkMap: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Village", "Hi"}) {
		t.Errorf("visited = %v", got)
	}
}

func TestWalkEntitiesFlat(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	list := []any{
		map[string]any{"name": "placeholder"}, // index 0 is always skipped
		map[string]any{
			"name":        "Potion",
			"description": "Restores 50 HP.",
			"note":        "",
		},
		map[string]any{"name": "Ether"}, // other fields absent
	}

	var got []string
	if err := nav.WalkEntities(list, ShapeFlat, collect(&got)); err != nil {
		t.Fatalf("WalkEntities: %v", err)
	}
	// The empty note is visited; corpus construction drops empties.
	want := []string{"Potion", "Restores 50 HP.", "", "Ether"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visited = %v, want %v", got, want)
	}
}

func TestWalkEntitiesPaged(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	troop := map[string]any{
		"pages": []any{
			map[string]any{"list": []any{command(401, "Boss appears!")}},
		},
	}
	commonEvent := map[string]any{
		"list": []any{command(401, "Part one"), command(401, "part two")},
	}
	list := []any{nil, troop, commonEvent}

	var got []string
	if err := nav.WalkEntities(list, ShapePaged, collect(&got)); err != nil {
		t.Fatalf("WalkEntities: %v", err)
	}
	want := []string{"Boss appears!", "Part one\npart two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visited = %v, want %v", got, want)
	}

	// The merged command list is written back into the entity.
	mergedList := commonEvent["list"].([]any)
	if len(mergedList) != 1 {
		t.Errorf("common event list has %d commands after merge, want 1", len(mergedList))
	}
}

func TestWalkVocabulary(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	doc := map[string]any{
		"game_title":    "Shadow of the Arcana",
		"currency_unit": "G",
		"skill_types":   []any{"Magic", "Special"},
		"terms": map[string]any{
			"gold":          "Gold",
			"level":         []any{"Lv", "Level"},
			"internal_flag": "not a vocab slot",
		},
	}

	var got []string
	if err := nav.WalkVocabulary(doc, collect(&got)); err != nil {
		t.Fatalf("WalkVocabulary: %v", err)
	}
	want := []string{"Shadow of the Arcana", "G", "Magic", "Special", "Lv", "Level", "Gold"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visited = %v, want %v", got, want)
	}
}

func TestGameTitle(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	if got := nav.GameTitle(map[string]any{"game_title": "Quest"}); got != "Quest" {
		t.Errorf("GameTitle = %q", got)
	}
	if got := nav.GameTitle(map[string]any{}); got != "" {
		t.Errorf("GameTitle on absent field = %q, want empty", got)
	}
}

func TestSlotSetPreservesBytes(t *testing.T) {
	t.Parallel()
	nav := newTestNavigator(t)

	entity := map[string]any{"note": []byte("old")}
	slot, ok := nav.slotField(entity, "note")
	if !ok {
		t.Fatal("slotField not found")
	}
	if err := slot.Set("new"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, ok := entity["note"].([]byte)
	if !ok {
		t.Fatalf("note is %T after Set, want []byte", entity["note"])
	}
	if string(raw) != "new" {
		t.Errorf("note = %q", raw)
	}
}
