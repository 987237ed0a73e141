package compiledict

import (
	"strings"
	"testing"

	"github.com/speldict/aspellgo/affix"
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

func TestBuildDeduplicatesAndExpands(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}

	rules, err := affix.ParseRules(strings.NewReader("PFX A Y 1\nPFX A 0 un .\n"))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}

	input := "happy/A\nHAPPY/A\nworld\n"
	d, err := Build(strings.NewReader(input), lang, sl, Options{Rules: rules})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if hits := d.CleanLookup("happy"); len(hits) != 1 {
		t.Fatalf("CleanLookup(happy) = %+v, want exactly one entry (HAPPY should dedupe)", hits)
	}

	found := false
	for _, w := range d.SoundslikeLookup(sl.ToSoundslike("unhappy")) {
		if w.Word == "unhappy" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the un- prefix expansion of happy to be materialized")
	}
}

func TestBuildRejectsInvalidWord(t *testing.T) {
	lang := testLanguage()
	sl := soundslike.None{Map: lang.Map}

	_, err := Build(strings.NewReader("123\n"), lang, sl, Options{})
	if err == nil {
		t.Fatalf("expected Build to reject a word with no letters")
	}
}
