package suggest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/speldict/aspellgo/dict"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
	"github.com/speldict/aspellgo/speller"
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

func testSpeller(t *testing.T, words ...string) *speller.Speller {
	t.Helper()
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}

	var groups []dict.SoundslikeGroup
	bySL := make(map[string][]dict.WordEntry)
	for _, w := range words {
		key := sl.ToSoundslike(w)
		bySL[key] = append(bySL[key], dict.WordEntry{Word: w})
	}
	for key, ws := range bySL {
		groups = append(groups, dict.SoundslikeGroup{Soundslike: key, Words: ws})
	}
	d := dict.BuildReadOnly(lang, sl, groups)

	sp := speller.New(lang, nil, speller.DefaultConfig())
	sp.Attach(d, speller.RoleMain, dict.Exact, true, true, false)
	return sp
}

func TestSuggestFindsOneEditCorrection(t *testing.T) {
	sp := testSpeller(t, "hello", "world", "help")

	got := Suggest(sp, "helllo", Options{Mode: Normal})
	found := false
	for i, w := range got {
		if i >= 3 {
			break
		}
		if strings.EqualFold(w, "hello") {
			found = true
		}
	}
	if !found {
		t.Fatalf("Suggest(helllo) = %v, want hello among the first 3", got)
	}
}

func TestSuggestPreservesCasePattern(t *testing.T) {
	sp := testSpeller(t, "hello")
	got := Suggest(sp, "HELLLO", Options{Mode: Normal})
	if len(got) == 0 {
		t.Fatalf("Suggest(HELLLO) returned no suggestions")
	}
	if got[0] != strings.ToUpper(got[0]) {
		t.Fatalf("Suggest(HELLLO)[0] = %q, want all-upper to match input case pattern", got[0])
	}
}

func TestSuggestDedupesAndLimits(t *testing.T) {
	sp := testSpeller(t, "cat", "cot", "car", "can", "bat", "cap")
	got := Suggest(sp, "cbt", Options{Mode: Ultra})
	seen := make(map[string]bool)
	for _, w := range got {
		lower := strings.ToLower(w)
		if seen[lower] {
			t.Fatalf("Suggest returned duplicate %q", w)
		}
		seen[lower] = true
	}
	if len(got) > configFor(Ultra).limit {
		t.Fatalf("Suggest returned %d results, want <= %d", len(got), configFor(Ultra).limit)
	}
}

func TestApplyReplRules(t *testing.T) {
	rules := []ReplRule{{From: "ph", To: "f"}}
	out := applyReplRules("phone", rules)
	if len(out) != 1 || out[0] != "fone" {
		t.Fatalf("applyReplRules(phone) = %v, want [fone]", out)
	}
}

func TestParseReplTable(t *testing.T) {
	rules, err := ParseReplTable(strings.NewReader("ph f\n# comment\nck k\n"))
	if err != nil {
		t.Fatalf("ParseReplTable: %v", err)
	}
	want := []ReplRule{{From: "ph", To: "f"}, {From: "ck", To: "k"}}
	if diff := cmp.Diff(want, rules); diff != "" {
		t.Fatalf("ParseReplTable mismatch (-want +got):\n%s", diff)
	}
}
