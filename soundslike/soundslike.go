// Package soundslike transforms a word into a phonetic key used to drive
// candidate generation during suggestion scanning.
//
// Three implementations are provided, selected by a language's soundslike
// configuration key:
//
//   - None: the identity transform over a word's stripped form.
//   - Generic: collapses runs of identical soundslike letters.
//   - Phonet: a rule-file-driven transducer (see phonet.go).
//
// Two Transforms are considered compatible only if they report the same
// Name and Version; a [dict.ReadOnlyDict] records both in its header and
// rejects loading against a mismatched soundslike, since soundslike keys
// computed by different rule sets are not comparable.
package soundslike

import "github.com/speldict/aspellgo/langdata"

// Transform converts a word to its soundslike key.
type Transform interface {
	// Name identifies the soundslike algorithm (e.g. "none", "generic",
	// "phonet:az-1").
	Name() string
	// Version is bumped whenever the rule set changes in a way that
	// would change output for some input.
	Version() int
	// ToSoundslike computes the soundslike key for word.
	ToSoundslike(word string) string
}

// None is the identity transform: out[i] = ToStripped(word[i]).
type None struct {
	Map *langdata.CharMap
}

func (n None) Name() string    { return "none" }
func (n None) Version() int    { return 1 }
func (n None) ToSoundslike(word string) string {
	buf := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		buf[i] = n.Map.ToStripped(word[i])
	}
	return string(buf)
}

// Generic emits ToSoundslike(byte) for each byte in turn, but collapses
// runs of repeated output bytes, e.g. "bb" and "b" soundslike the same.
type Generic struct {
	Map *langdata.CharMap
}

func (g Generic) Name() string { return "generic" }
func (g Generic) Version() int { return 1 }

func (g Generic) ToSoundslike(word string) string {
	if len(word) == 0 {
		return ""
	}
	out := make([]byte, 0, len(word))
	var prev byte
	havePrev := false
	first := true
	for i := 0; i < len(word); i++ {
		var b byte
		if first {
			b = g.Map.SoundslikeFirst(word[i])
			first = false
		} else {
			b = g.Map.SoundslikeRest(word[i])
		}
		if havePrev && b == prev {
			continue
		}
		out = append(out, b)
		prev = b
		havePrev = true
	}
	return string(out)
}

// Idempotent reports whether applying t twice to any output of t yields
// the same result as applying it once. None always is; Generic is,
// because its collapse rule guarantees no output contains a run of
// identical bytes, so a second pass changes nothing; Phonet makes no such
// guarantee in general and is not considered idempotent.
func Idempotent(t Transform) bool {
	switch t.Name() {
	case "none", "generic":
		return true
	default:
		return false
	}
}
