package speller

import (
	"strings"
	"testing"

	"github.com/speldict/aspellgo/affix"
	"github.com/speldict/aspellgo/dict"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
)

func testLanguage() *langdata.Language {
	var rows [256]langdata.CsetRow
	for i := 0; i < 256; i++ {
		b := byte(i)
		class := byte('o')
		lower, upper := b, b
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
	d := langdata.Descriptor{Name: "test", StoreAs: "stripped"}
	return &langdata.Language{Name: "test", Map: langdata.BuildCharMap(rows, d)}
}

func buildDict(t *testing.T, lang *langdata.Language, sl soundslike.Transform, words ...string) *dict.ReadOnlyDict {
	t.Helper()
	bySL := make(map[string][]dict.WordEntry)
	for _, w := range words {
		key := sl.ToSoundslike(w)
		bySL[key] = append(bySL[key], dict.WordEntry{Word: w})
	}
	var groups []dict.SoundslikeGroup
	for key, ws := range bySL {
		groups = append(groups, dict.SoundslikeGroup{Soundslike: key, Words: ws})
	}
	return dict.BuildReadOnly(lang, sl, groups)
}

func TestSpellerCheckDirectLookup(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := buildDict(t, lang, sl, "hello", "world")

	sp := New(lang, nil, DefaultConfig())
	sp.Attach(d, RoleMain, dict.Exact, true, true, false)

	if ok, _ := sp.Check("hello"); !ok {
		t.Fatalf("Check(hello) = false, want true")
	}
	if ok, _ := sp.Check("zzz"); ok {
		t.Fatalf("Check(zzz) = true, want false")
	}
}

func TestSpellerCheckAffix(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d2 := dict.BuildReadOnly(lang, sl, []dict.SoundslikeGroup{
		{Soundslike: sl.ToSoundslike("happy"), Words: []dict.WordEntry{{Word: "happy", Flags: "A"}}},
	})

	rules, err := affix.ParseRules(strings.NewReader("PFX A Y 1\nPFX A 0 un .\n"))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}

	sp := New(lang, rules, DefaultConfig())
	sp.Attach(d2, RoleMain, dict.Exact, true, true, false)

	ok, info := sp.Check("unhappy")
	if !ok {
		t.Fatalf("Check(unhappy) = false, want true via affix expansion")
	}
	if info == nil || info.PrefixAdd != "un" {
		t.Fatalf("Check(unhappy) info = %+v, want PrefixAdd=un", info)
	}
}

func TestSpellerRunTogether(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := buildDict(t, lang, sl, "sea", "side")

	cfg := DefaultConfig()
	cfg.RunTogether = true
	cfg.RunTogetherMin = 3
	cfg.RunTogetherLimit = 4

	sp := New(lang, nil, cfg)
	sp.Attach(d, RoleMain, dict.Exact, true, true, false)

	ok, info := sp.Check("seaside")
	if !ok {
		t.Fatalf("Check(seaside) = false, want true via run-together split")
	}
	if info.Word != "sea" || info.CompoundNext == nil || info.CompoundNext.Word != "side" {
		t.Fatalf("Check(seaside) info = %+v, want sea+side", info)
	}
}

func TestSpellerRunTogetherHalfAcceptedViaAffix(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := dict.BuildReadOnly(lang, sl, []dict.SoundslikeGroup{
		{Soundslike: sl.ToSoundslike("happy"), Words: []dict.WordEntry{{Word: "happy", Flags: "A"}}},
		{Soundslike: sl.ToSoundslike("world"), Words: []dict.WordEntry{{Word: "world"}}},
	})

	rules, err := affix.ParseRules(strings.NewReader("PFX A Y 1\nPFX A 0 un .\n"))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}

	cfg := DefaultConfig()
	cfg.RunTogether = true
	cfg.RunTogetherMin = 3
	cfg.RunTogetherLimit = 4

	sp := New(lang, rules, cfg)
	sp.Attach(d, RoleMain, dict.Exact, true, true, false)

	// "unhappy" is only a dictionary word via its PFX-stripped root
	// "happy"; checkPart must consult the same affix-stripped lookup
	// Check() does for a top-level word, not just a direct Lookup.
	ok, info := sp.Check("unhappyworld")
	if !ok {
		t.Fatalf("Check(unhappyworld) = false, want true via run-together + affix split")
	}
	if info.Word != "unhappy" || info.PrefixAdd != "un" {
		t.Fatalf("Check(unhappyworld) left info = %+v, want Word=unhappy PrefixAdd=un", info)
	}
	if info.CompoundNext == nil || info.CompoundNext.Word != "world" {
		t.Fatalf("Check(unhappyworld) right info = %+v, want world", info.CompoundNext)
	}
}

func TestSpellerStoreReplacement(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := buildDict(t, lang, sl, "the")
	repl := dict.NewRepl(lang, sl)

	sp := New(lang, nil, DefaultConfig())
	sp.Attach(d, RoleMain, dict.Exact, true, true, false)
	sp.Attach(repl, RoleRepl, dict.Exact, false, false, true)

	if err := sp.StoreReplacement("teh", "the"); err != nil {
		t.Fatalf("StoreReplacement: %v", err)
	}
	reps := repl.ReplLookup("teh")
	if len(reps) != 1 || reps[0] != "the" {
		t.Fatalf("ReplLookup(teh) = %v, want [the]", reps)
	}
}

func TestSpellerDetach(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}
	d := buildDict(t, lang, sl, "hello")

	sp := New(lang, nil, DefaultConfig())
	id := sp.Attach(d, RoleMain, dict.Exact, true, true, false)
	if ok, _ := sp.Check("hello"); !ok {
		t.Fatalf("Check(hello) = false before detach")
	}
	sp.Detach(id)
	if ok, _ := sp.Check("hello"); ok {
		t.Fatalf("Check(hello) = true after detach, want false")
	}
}
