// Package compiledict builds a compiled ReadOnlyDict from a plain word
// list, the operation behind the engine's "create" action.
package compiledict

import (
	"bufio"
	"io"
	"strings"

	"github.com/speldict/aspellgo/affix"
	"github.com/speldict/aspellgo/dict"
	"github.com/speldict/aspellgo/errs"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
)

// Options controls how far affix expansion runs during a build. Only
// prefix expansions that affect a word's first MaxSoundslikePrefix
// soundslike characters are materialized into the compiled dictionary,
// since that is all jump1/jump2 need to stay correct; the remaining
// surface forms are recovered at query time via Affix.expand over the
// stored root and flags.
type Options struct {
	Rules *affix.RuleSet // nil disables expansion entirely

	// MaxSoundslikePrefix bounds how many leading soundslike characters a
	// prefix expansion is allowed to change before it is no longer worth
	// precomputing into the dictionary; 3 matches jump2's key width.
	MaxSoundslikePrefix int
}

// Build reads one "word[/flags]" entry per line from r, validates each via
// lang's CheckIfValid, expands prefix-flagged entries that affect the
// soundslike key's first few characters, deduplicates by insensitive
// hash, and assembles the resulting ReadOnlyDict.
//
// The build is single-pass streaming over the input except for the final
// hash and jump-table resolution, which needs every word gathered first.
func Build(r io.Reader, lang *langdata.Language, sl soundslike.Transform, opts Options) (*dict.ReadOnlyDict, error) {
	seen := make(map[string]bool)     // clean(word) -> already recorded
	bySL := make(map[string][]dict.WordEntry)

	record := func(word, flags string) {
		clean := cleanWord(lang, word)
		if seen[clean] {
			return
		}
		seen[clean] = true
		key := sl.ToSoundslike(clean)
		bySL[key] = append(bySL[key], dict.WordEntry{Word: word, Flags: flags})
	}

	sc := bufio.NewScanner(r)
	line := 0
	maxPrefix := opts.MaxSoundslikePrefix
	if maxPrefix <= 0 {
		maxPrefix = 3
	}
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if ci := strings.IndexByte(text, ':'); ci >= 0 {
			text = text[:ci] // drop compound-info suffix, not modeled here
		}
		word := text
		flags := ""
		if si := strings.IndexByte(text, '/'); si >= 0 {
			word = text[:si]
			flags = text[si+1:]
		}
		if err := lang.Map.CheckIfValid(word); err != nil {
			return nil, errs.Wrap(errs.InvalidWord, err, "invalid dictionary entry %q", word).At("<wordlist>", line)
		}
		record(word, flags)

		if opts.Rules != nil && flags != "" {
			for _, derived := range opts.Rules.Expand(word, flags) {
				key := sl.ToSoundslike(cleanWord(lang, derived.Word))
				if len(key) == 0 || len(key) < maxPrefix {
					record(derived.Word, "")
					continue
				}
				// only materialize the derived form if it lands in a
				// distinct first-maxPrefix soundslike bucket from its
				// root, so jump1/jump2 continue to find it.
				rootKey := sl.ToSoundslike(cleanWord(lang, word))
				if len(rootKey) < maxPrefix || key[:maxPrefix] != rootKey[:maxPrefix] {
					record(derived.Word, "")
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.IO, err, "reading word list")
	}

	groups := make([]dict.SoundslikeGroup, 0, len(bySL))
	for key, words := range bySL {
		groups = append(groups, dict.SoundslikeGroup{Soundslike: key, Words: words})
	}

	return dict.BuildReadOnly(lang, sl, groups), nil
}

func cleanWord(lang *langdata.Language, word string) string {
	m := lang.Map
	buf := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		buf[i] = m.ToClean(word[i])
	}
	return string(buf)
}
