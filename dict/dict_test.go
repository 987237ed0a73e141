package dict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
)

// testLanguage builds a minimal ASCII-only Language for tests: lowercase
// a-z map to themselves, uppercase A-Z lowercase to a-z, apostrophe is
// legal mid-word only.
func testLanguage() *langdata.Language {
	var rows [256]langdata.CsetRow
	for i := 0; i < 256; i++ {
		b := byte(i)
		class := byte('o')
		lower := b
		upper := b
		if b >= 'a' && b <= 'z' {
			class = 'l'
			upper = b - 'a' + 'A'
		} else if b >= 'A' && b <= 'Z' {
			class = 'l'
			lower = b - 'A' + 'a'
		}
		rows[i] = langdata.CsetRow{
			Byte: b, Unicode: rune(b), Class: class,
			Upper: upper, Lower: lower, Title: upper, Plain: lower,
			SoundFirst: lower, SoundRest: lower,
		}
	}
	d := langdata.Descriptor{
		Name:     "test",
		StoreAs:  "stripped",
		Specials: []langdata.SpecialEntry{{Char: '\'', Begin: false, Middle: true, End: false}},
	}
	return &langdata.Language{
		Name: "test",
		Map:  langdata.BuildCharMap(rows, d),
	}
}

func TestReadOnlyDictBuildLoadRoundTrip(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}

	groups := []SoundslikeGroup{
		{Soundslike: "hello", Words: []WordEntry{{Word: "hello"}}},
		{Soundslike: "world", Words: []WordEntry{{Word: "world"}}},
		{Soundslike: "helloo", Words: []WordEntry{{Word: "hellooo"}}},
	}
	built := BuildReadOnly(lang, sl, groups)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.rws")
	if err := built.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path, lang, sl)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", loaded.Size())
	}

	hits := loaded.Lookup("hello", Exact)
	if len(hits) != 1 || hits[0].Word != "hello" {
		t.Fatalf("Lookup(hello) = %+v", hits)
	}

	sw := loaded.SoundslikeLookup("world")
	if len(sw) != 1 || sw[0].Word != "world" {
		t.Fatalf("SoundslikeLookup(world) = %+v", sw)
	}

	if hits := loaded.Lookup("nope", Exact); hits != nil {
		t.Fatalf("Lookup(nope) = %+v, want nil", hits)
	}
}

func TestReadOnlyDictCleanLookupMatchesAllHomographs(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}

	groups := []SoundslikeGroup{
		{Soundslike: "usa", Words: []WordEntry{{Word: "USA"}, {Word: "usa"}}},
	}
	built := BuildReadOnly(lang, sl, groups)

	dir := t.TempDir()
	path := filepath.Join(dir, "homograph.rws")
	if err := built.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path, lang, sl)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := loaded.CleanLookup("usa")
	want := []WordEntry{{Word: "USA"}, {Word: "usa"}}
	sortByWord := cmpopts.SortSlices(func(a, b WordEntry) bool { return a.Word < b.Word })
	if diff := cmp.Diff(want, got, sortByWord); diff != "" {
		t.Fatalf("CleanLookup(usa) mismatch (-want +got):\n%s", diff)
	}
}

// TestReadOnlySoundslikeIterSkipPastAfterPlainNextDoesNotRewind builds a
// dict spanning four jump1 buckets and drives the iterator through a run
// of plain Next() calls before a SkipPast, so SkipPast's own jump1/jump2
// base must reflect where the scan actually got to. Without tracking
// j1/j2 during Next(), SkipPast would compute from the stale zero base
// and reset off behind an already-visited group.
func TestReadOnlySoundslikeIterSkipPastAfterPlainNextDoesNotRewind(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}

	groups := []SoundslikeGroup{
		{Soundslike: "aaa", Words: []WordEntry{{Word: "aaa"}}},
		{Soundslike: "aab", Words: []WordEntry{{Word: "aab"}}},
		{Soundslike: "abc", Words: []WordEntry{{Word: "abc"}}},
		{Soundslike: "acd", Words: []WordEntry{{Word: "acd"}}},
		{Soundslike: "bde", Words: []WordEntry{{Word: "bde"}}},
	}
	d := BuildReadOnly(lang, sl, groups)

	it := d.SoundslikeIter().(*readOnlySoundslikeIter)

	var seen []string
	for i := 0; i < 4; i++ {
		e, ok := it.Next()
		if !ok {
			t.Fatalf("Next() #%d: got false, want a group", i)
		}
		seen = append(seen, e.Soundslike)
	}
	if want := []string{"aaa", "aab", "abc", "acd"}; !equalStrings(seen, want) {
		t.Fatalf("groups consumed before SkipPast = %v, want %v", seen, want)
	}

	offBeforeSkip := it.off
	it.SkipPast(1)
	if it.off < offBeforeSkip {
		t.Fatalf("SkipPast(1) moved off backward: %d -> %d (already scanned up to %d)",
			offBeforeSkip, it.off, offBeforeSkip)
	}

	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		for _, s := range seen {
			if e.Soundslike == s {
				t.Fatalf("Next() after SkipPast re-emitted %q, already consumed before the skip", s)
			}
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReadOnlyDictRejectsLanguageMismatch(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	built := BuildReadOnly(lang, sl, []SoundslikeGroup{{Soundslike: "a", Words: []WordEntry{{Word: "a"}}}})

	dir := t.TempDir()
	path := filepath.Join(dir, "test.rws")
	if err := built.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := testLanguage()
	other.Name = "other"
	if _, err := Load(path, other, sl); err == nil {
		t.Fatalf("expected language mismatch error")
	}
}

func TestWritableDictAddSaveMerge(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := NewWritable(lang, sl)

	if err := d.Add("foobarbaz"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := d.Add("foobarbaz"); err != nil {
		t.Fatalf("Add (duplicate): %v", err)
	}
	if d.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", d.Size())
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "personal.pws")
	if err := d.Save(path, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh := NewWritable(lang, sl)
	if err := fresh.Merge(path); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(fresh.CleanLookup("foobarbaz")) != 1 {
		t.Fatalf("fresh dict missing foobarbaz after merge")
	}
}

func TestWritableDictRejectsInvalidWord(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := NewWritable(lang, sl)

	if err := d.Add("123"); err == nil {
		t.Fatalf("expected Add to reject a word with no letters")
	}
}

func TestReplDictAddLookup(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := NewRepl(lang, sl)

	if err := d.AddRepl("teh", "the"); err != nil {
		t.Fatalf("AddRepl: %v", err)
	}
	if err := d.AddRepl("teh", "the"); err != nil {
		t.Fatalf("AddRepl (duplicate): %v", err)
	}

	reps := d.ReplLookup("teh")
	if len(reps) != 1 || reps[0] != "the" {
		t.Fatalf("ReplLookup(teh) = %v, want [the]", reps)
	}
}

func TestReplDictSaveMerge(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := NewRepl(lang, sl)
	_ = d.AddRepl("teh", "the")
	_ = d.AddRepl("adn", "and")

	dir := t.TempDir()
	path := filepath.Join(dir, "repl.prepl")
	if err := d.Save(path, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh := NewRepl(lang, sl)
	if err := fresh.Merge(path); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if reps := fresh.ReplLookup("adn"); len(reps) != 1 || reps[0] != "and" {
		t.Fatalf("ReplLookup(adn) = %v, want [and]", reps)
	}
}

func TestDictCacheRefcounting(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	built := BuildReadOnly(lang, sl, []SoundslikeGroup{{Soundslike: "a", Words: []WordEntry{{Word: "a"}}}})

	dir := t.TempDir()
	path := filepath.Join(dir, "cached.rws")
	if err := built.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c := NewCache()
	d1, err := c.Get(path, lang, sl)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	d2, err := c.Get(path, lang, sl)
	if err != nil {
		t.Fatalf("Get (second): %v", err)
	}
	if d1 != d2 {
		t.Fatalf("expected the same cached *ReadOnlyDict instance")
	}
	c.Release(path)
	c.Release(path)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("dictionary file should still exist after cache release: %v", err)
	}
}
