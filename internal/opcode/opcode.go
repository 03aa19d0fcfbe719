// Package opcode classifies event commands and vocabulary slots as
// text-bearing or not. The tables here are the single source of truth for
// both the extraction and reinsertion passes; any drift between the two would
// desynchronize sequence merging.
package opcode

// Class is the closed set of text classifications.
type Class int

const (
	// Skip marks a command or slot that carries no translatable text.
	Skip Class = iota
	// Sequence marks one line of a multi-command message or scroll run.
	Sequence
	// Standalone marks a single self-contained text parameter.
	Standalone
	// Choice marks a command whose first parameter is a list of options,
	// each an independent text entry.
	Choice
	// VocabSlot marks a named vocabulary table entry.
	VocabSlot
)

// Category selects which opcode table applies to a document.
type Category int

const (
	CategoryMap Category = iota
	CategoryDatabase
	CategoryVocabulary
)

// Rule is one classification outcome. Filter, when set, further restricts a
// Standalone parameter to values that look like text; the same opcode is used
// for non-text payloads by older engine builds.
type Rule struct {
	Class  Class
	Filter func(string) bool
}

// Event command codes shared by map events, troop pages, and common events.
const (
	codeMessageLine = 401
	codeScrollLine  = 405
	codeShowChoices = 102
	codeChangeName  = 320
	codeChangeNick  = 324
	codeInlineEval  = 355
)

var eventRules = map[int]Rule{
	codeMessageLine: {Class: Sequence},
	codeScrollLine:  {Class: Sequence},
	codeShowChoices: {Class: Choice},
	codeChangeName:  {Class: Standalone},
	codeChangeNick:  {Class: Standalone},
	codeInlineEval:  {Class: Standalone, Filter: quotedLiteral},
}

// Classify resolves a command code for the given document category. Unknown
// codes, and every code in a vocabulary document, classify as Skip.
func Classify(cat Category, code int) Rule {
	switch cat {
	case CategoryMap, CategoryDatabase:
		if r, ok := eventRules[code]; ok {
			return r
		}
	}
	return Rule{Class: Skip}
}

// quotedLiteral accepts only parameters wrapped in double quotes. The inline
// eval opcode carries arbitrary expressions; only quoted string literals are
// display text.
func quotedLiteral(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// VocabSlots lists the known vocabulary table slot names in their canonical
// traversal order. Slot entries may each be a single text value or a list of
// text values.
var VocabSlots = []string{
	"level",
	"hp",
	"mp",
	"attack",
	"defense",
	"agility",
	"luck",
	"hit_rate",
	"evasion",
	"gold",
	"exp",
	"item",
	"weapon",
	"armor",
	"skill",
	"equip",
	"status",
	"save",
	"game_end",
	"fight",
	"escape",
	"guard",
	"victory",
	"defeat",
	"level_up",
	"obtain_item",
}

var vocabSlotSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(VocabSlots))
	for _, name := range VocabSlots {
		set[name] = struct{}{}
	}
	return set
}()

// ClassifySlot resolves a vocabulary table entry by name.
func ClassifySlot(name string) Class {
	if _, ok := vocabSlotSet[name]; ok {
		return VocabSlot
	}
	return Skip
}
