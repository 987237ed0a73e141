package dict

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/speldict/aspellgo/errs"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
)

// ReplDict is a writable dictionary of misspelling to replacement
// word(s), built by repeated calls to store_replacement during a
// suggest session. Lookups are by the misspelling's clean form; multiple
// replacements for the same misspelling are kept in insertion order.
type ReplDict struct {
	lang       *langdata.Language
	soundslike soundslike.Transform

	byMis map[string][]string // clean(mis) -> replacement words, insertion order
}

// NewRepl returns an empty ReplDict for lang.
func NewRepl(lang *langdata.Language, sl soundslike.Transform) *ReplDict {
	return &ReplDict{lang: lang, soundslike: sl, byMis: make(map[string][]string)}
}

func (d *ReplDict) clean(word string) string {
	m := d.lang.Map
	buf := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		buf[i] = m.ToClean(word[i])
	}
	return string(buf)
}

func (d *ReplDict) Size() int                   { return len(d.byMis) }
func (d *ReplDict) Language() *langdata.Language { return d.lang }
func (d *ReplDict) HaveSoundslike() bool         { return false }
func (d *ReplDict) FastLookup() bool             { return false }
func (d *ReplDict) FastScan() bool               { return false }
func (d *ReplDict) AffixCompressed() bool        { return false }

// Lookup and CleanLookup are present to satisfy Dict but a ReplDict has no
// "correct word" entries of its own to offer the check pipeline; it is
// only ever consulted via ReplLookup during suggest.
func (d *ReplDict) Lookup(word string, cmp SensitiveCompare) []WordEntry { return nil }
func (d *ReplDict) CleanLookup(clean string) []WordEntry                 { return nil }
func (d *ReplDict) SoundslikeLookup(sl string) []WordEntry               { return nil }
func (d *ReplDict) SoundslikeIter() SoundslikeIterator                   { return &writableIter{} }

// ReplLookup returns the replacements recorded for word, in the order
// they were added.
func (d *ReplDict) ReplLookup(word string) []string {
	return d.byMis[d.clean(word)]
}

// AddRepl records that cor is a replacement for the misspelling mis. The
// pair is idempotent (case-sensitive): adding the same (mis, cor) twice
// has no further effect.
func (d *ReplDict) AddRepl(mis, cor string) error {
	key := d.clean(mis)
	for _, existing := range d.byMis[key] {
		if existing == cor {
			return nil
		}
	}
	d.byMis[key] = append(d.byMis[key], cor)
	return nil
}

const replHeader = "personal_repl-1.1"

// Save writes d as a replacement-pair file, atomically via a temp file
// and rename.
func (d *ReplDict) Save(path string, doUpdate bool) error {
	return withWriteLock(path, func() error { return d.saveLocked(path, doUpdate) })
}

func (d *ReplDict) saveLocked(path string, doUpdate bool) error {
	if doUpdate {
		if _, err := os.Stat(path); err == nil {
			if err := d.Merge(path); err != nil {
				return err
			}
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errs.Wrap(errs.IO, err, "creating replacement dictionary temp file")
	}
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s %s 0\n", replHeader, d.lang.Name)
	for mis, reps := range d.byMis {
		for _, cor := range reps {
			fmt.Fprintf(w, "%s %s\n", mis, cor)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errs.Wrap(errs.IO, err, "writing replacement dictionary")
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.IO, err, "closing replacement dictionary")
	}
	return os.Rename(tmp, path)
}

// Merge parses path and adds every (mis, cor) pair found in it.
func (d *ReplDict) Merge(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Wrap(errs.IO, err, "opening replacement dictionary")
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	if !sc.Scan() {
		return errs.New(errs.BadFileFormat, "empty replacement dictionary").At(path, 1)
	}
	line++
	fields := strings.Fields(sc.Text())
	if len(fields) != 3 || fields[0] != replHeader {
		return errs.New(errs.BadFileFormat, "malformed replacement dictionary header").At(path, line)
	}
	if fields[1] != d.lang.Name {
		return errs.New(errs.LanguageMismatch, "replacement dictionary is for %q, speller is for %q", fields[1], d.lang.Name).At(path, line)
	}

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		pair := strings.Fields(text)
		if len(pair) != 2 {
			return errs.New(errs.BadFileFormat, "malformed replacement pair: %q", text).At(path, line)
		}
		if err := d.AddRepl(pair[0], pair[1]); err != nil {
			return errs.Wrap(errs.BadFileFormat, err, "merging replacement dictionary").At(path, line)
		}
	}
	return sc.Err()
}

// LoadRepl reads a replacement-pair file into a new ReplDict.
func LoadRepl(path string, lang *langdata.Language, sl soundslike.Transform) (*ReplDict, error) {
	d := NewRepl(lang, sl)
	if err := d.Merge(path); err != nil {
		return nil, err
	}
	return d, nil
}
