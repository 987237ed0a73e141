// Package dict provides the uniform dictionary interface the speller
// composes: a read-only compiled main dictionary with a two-level
// soundslike jump index, a writable personal/session dictionary, and a
// writable replacement-pair dictionary.
package dict

import "github.com/speldict/aspellgo/langdata"

// WordEntry is one stored dictionary word plus the affix flags attached to
// it (empty if the word carries none).
type WordEntry struct {
	Word  string
	Flags string
}

// SoundslikeEntry groups every word sharing one soundslike key.
type SoundslikeEntry struct {
	Soundslike string
	Words      []WordEntry
}

// SensitiveCompare decides whether two spellings of a word are considered
// the same entry, given the attachment's case/accent policy (e.g. a
// byte-exact compare, or one that folds through a Language's ToStripped
// table first).
type SensitiveCompare func(a, b string) bool

// Exact is the SensitiveCompare that requires byte-identical strings.
func Exact(a, b string) bool { return a == b }

// Stripped returns a SensitiveCompare that folds both sides through m's
// ToStripped table before comparing, i.e. case- and accent-insensitive
// comparison.
func Stripped(m *langdata.CharMap) SensitiveCompare {
	return func(a, b string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := 0; i < len(a); i++ {
			if m.ToStripped(a[i]) != m.ToStripped(b[i]) {
				return false
			}
		}
		return true
	}
}

// SoundslikeIterator walks a dictionary's soundslike index in sorted
// order. Next returns the current entry and moves to the next;
// SkipPast lets a caller that knows the current prefix already exceeds an
// edit-distance budget skip a whole jump1/jump2 bucket instead of walking
// entry by entry, per the stopped_at protocol documented on ReadOnlyDict.
type SoundslikeIterator interface {
	// Next returns the next soundslike group, or ok==false at the end.
	Next() (SoundslikeEntry, bool)
	// SkipPast advances the iterator past any remaining entries whose
	// soundslike key agrees with the current one in its first stoppedAt
	// characters 	(stoppedAt < 2 skips the jump1 bucket, < 3 the jump2
	// bucket, otherwise it is a no-op and the next Next call simply
	// advances normally).
	SkipPast(stoppedAt int)
}

// Dict is the capability every dictionary backend provides to a Speller.
// Backends additionally implement Writable or Repl when they support
// mutation.
type Dict interface {
	// Lookup returns every stored entry whose spelling equals word under
	// cmp's policy.
	Lookup(word string, cmp SensitiveCompare) []WordEntry
	// CleanLookup is a case/accent-insensitive lookup keyed by the
	// language's clean form, used by affix checking to avoid paying case
	// costs twice.
	CleanLookup(clean string) []WordEntry
	// SoundslikeLookup returns every word stored under soundslike.
	SoundslikeLookup(soundslike string) []WordEntry
	// SoundslikeIter returns a fresh cursor over the sorted soundslike
	// index.
	SoundslikeIter() SoundslikeIterator

	Size() int
	Language() *langdata.Language

	HaveSoundslike() bool
	FastLookup() bool
	FastScan() bool
	AffixCompressed() bool
}

// Writable is implemented by dictionaries that support mutation and
// persistence: the personal and session word lists.
type Writable interface {
	Dict
	Add(word string) error
	Remove(word string) error
	Clear()
	Save(path string, doUpdate bool) error
	Merge(path string) error
}

// Repl is implemented by the replacement-pair dictionary.
type Repl interface {
	Dict
	ReplLookup(word string) []string
	AddRepl(mis, cor string) error
	Save(path string, doUpdate bool) error
	Merge(path string) error
}
