package dict

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/speldict/aspellgo/errs"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
)

// WritableDict is an in-memory, mutable word list — a personal or session
// dictionary. Words are held in a map keyed by their clean form, each key
// holding every distinct spelling added under it, with a parallel
// soundslike multi-map for suggestion scanning.
type WritableDict struct {
	lang       *langdata.Language
	soundslike soundslike.Transform

	byClean map[string][]WordEntry // clean(word) -> entries sharing that key
	bySL    map[string][]WordEntry

	modTime time.Time // snapshot of the on-disk file's mtime as of the last load/save
}

// NewWritable returns an empty WritableDict for lang.
func NewWritable(lang *langdata.Language, sl soundslike.Transform) *WritableDict {
	return &WritableDict{
		lang:       lang,
		soundslike: sl,
		byClean:    make(map[string][]WordEntry),
		bySL:       make(map[string][]WordEntry),
	}
}

func (d *WritableDict) clean(word string) string {
	m := d.lang.Map
	buf := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		buf[i] = m.ToClean(word[i])
	}
	return string(buf)
}

func (d *WritableDict) Size() int                   { return len(d.byClean) }
func (d *WritableDict) Language() *langdata.Language { return d.lang }
func (d *WritableDict) HaveSoundslike() bool         { return true }
func (d *WritableDict) FastLookup() bool             { return false }
func (d *WritableDict) FastScan() bool               { return false }
func (d *WritableDict) AffixCompressed() bool        { return false }

func (d *WritableDict) Lookup(word string, cmp SensitiveCompare) []WordEntry {
	var out []WordEntry
	for _, e := range d.byClean[d.clean(word)] {
		if cmp(word, e.Word) {
			out = append(out, e)
		}
	}
	return out
}

func (d *WritableDict) CleanLookup(clean string) []WordEntry {
	return d.byClean[clean]
}

func (d *WritableDict) SoundslikeLookup(sl string) []WordEntry {
	return d.bySL[sl]
}

func (d *WritableDict) SoundslikeIter() SoundslikeIterator {
	keys := make([]string, 0, len(d.bySL))
	for k := range d.bySL {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &writableIter{d: d, keys: keys}
}

type writableIter struct {
	d    *WritableDict
	keys []string
	i    int
}

func (it *writableIter) Next() (SoundslikeEntry, bool) {
	if it.i >= len(it.keys) {
		return SoundslikeEntry{}, false
	}
	k := it.keys[it.i]
	it.i++
	return SoundslikeEntry{Soundslike: k, Words: it.d.bySL[k]}, true
}

// SkipPast is a no-op for WritableDict: its word count is small enough
// that a full scan is already cheap, so there is no bucket structure to
// skip.
func (it *writableIter) SkipPast(int) {}

// Add validates word and inserts it unless the identical spelling is
// already stored; spellings that differ only in case are kept as separate
// entries under the same clean-form key.
func (d *WritableDict) Add(word string) error {
	if err := d.lang.Map.CheckIfValid(word); err != nil {
		return err
	}
	clean := d.clean(word)
	for _, e := range d.byClean[clean] {
		if e.Word == word {
			return nil
		}
	}
	entry := WordEntry{Word: word}
	d.byClean[clean] = append(d.byClean[clean], entry)
	sl := d.soundslike.ToSoundslike(clean)
	d.bySL[sl] = append(d.bySL[sl], entry)
	return nil
}

// Remove deletes word if present.
func (d *WritableDict) Remove(word string) error {
	clean := d.clean(word)
	entries := d.byClean[clean]
	for i, e := range entries {
		if e.Word == word {
			d.byClean[clean] = append(entries[:i], entries[i+1:]...)
			if len(d.byClean[clean]) == 0 {
				delete(d.byClean, clean)
			}
			break
		}
	}
	sl := d.soundslike.ToSoundslike(clean)
	slEntries := d.bySL[sl]
	for i, e := range slEntries {
		if e.Word == word {
			d.bySL[sl] = append(slEntries[:i], slEntries[i+1:]...)
			if len(d.bySL[sl]) == 0 {
				delete(d.bySL, sl)
			}
			break
		}
	}
	return nil
}

func (d *WritableDict) Clear() {
	d.byClean = make(map[string][]WordEntry)
	d.bySL = make(map[string][]WordEntry)
}

const personalHeader = "personal_ws-1.1"

// Save writes d to path as a personal word-list file. If doUpdate is true
// and the on-disk file has been modified since the last load/save, d first
// re-merges from disk so concurrent edits (e.g. from another process) are
// not lost. The file is written to a temporary path and renamed into place
// so a crash never leaves a partially written dictionary.
func (d *WritableDict) Save(path string, doUpdate bool) error {
	return withWriteLock(path, func() error { return d.saveLocked(path, doUpdate) })
}

func (d *WritableDict) saveLocked(path string, doUpdate bool) error {
	if doUpdate {
		if fi, err := os.Stat(path); err == nil && fi.ModTime().After(d.modTime) {
			if err := d.Merge(path); err != nil {
				return err
			}
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errs.Wrap(errs.IO, err, "creating personal dictionary temp file")
	}
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s %s %d\n", personalHeader, d.lang.Name, d.Size())
	for _, entries := range d.byClean {
		for _, e := range entries {
			fmt.Fprintln(w, e.Word)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errs.Wrap(errs.IO, err, "writing personal dictionary")
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.IO, err, "closing personal dictionary")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errs.Wrap(errs.IO, err, "renaming personal dictionary into place")
	}
	if fi, err := os.Stat(path); err == nil {
		d.modTime = fi.ModTime()
	}
	return nil
}

// Merge parses path's header and adds every word found in it, rolling
// back (clearing whatever was added this call) and propagating the error
// if the file is malformed partway through.
func (d *WritableDict) Merge(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Wrap(errs.IO, err, "opening personal dictionary")
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	if !sc.Scan() {
		return errs.New(errs.BadFileFormat, "empty personal dictionary").At(path, 1)
	}
	line++
	fields := strings.Fields(sc.Text())
	if len(fields) != 3 || fields[0] != personalHeader {
		return errs.New(errs.BadFileFormat, "malformed personal dictionary header").At(path, line)
	}
	if fields[1] != d.lang.Name {
		return errs.New(errs.LanguageMismatch, "personal dictionary is for %q, speller is for %q", fields[1], d.lang.Name).At(path, line)
	}

	var added []string
	for sc.Scan() {
		line++
		word := strings.TrimSpace(sc.Text())
		if word == "" {
			continue
		}
		existed := len(d.Lookup(word, Exact)) > 0
		if err := d.Add(word); err != nil {
			for _, w := range added {
				d.Remove(w)
			}
			return errs.Wrap(errs.BadFileFormat, err, "merging personal dictionary").At(path, line)
		}
		if !existed {
			added = append(added, word)
		}
	}
	if err := sc.Err(); err != nil {
		return errs.Wrap(errs.IO, err, "reading personal dictionary").At(path, line)
	}
	if fi, err := os.Stat(path); err == nil {
		d.modTime = fi.ModTime()
	}
	return nil
}

// LoadWritable reads a personal word-list file into a new WritableDict.
func LoadWritable(path string, lang *langdata.Language, sl soundslike.Transform) (*WritableDict, error) {
	d := NewWritable(lang, sl)
	if err := d.Merge(path); err != nil {
		return nil, err
	}
	return d, nil
}

