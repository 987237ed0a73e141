package affix

import (
	"strings"
	"testing"
)

const sampleRules = `PFX A Y 1
PFX A 0 un .
SFX B Y 1
SFX B 0 s .
`

func mustParse(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := ParseRules(strings.NewReader(sampleRules))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	return rs
}

func dictLookup(roots map[string]string) LookupFunc {
	return func(word string) (string, bool) {
		flags, ok := roots[word]
		return flags, ok
	}
}

func TestCheckPrefix(t *testing.T) {
	rs := mustParse(t)
	lookup := dictLookup(map[string]string{"happy": "A"})

	c, ok := rs.Check("unhappy", lookup)
	if !ok {
		t.Fatalf("expected unhappy to check out via prefix A")
	}
	if c.Root != "happy" || c.Prefix == nil || c.Prefix.Flag != 'A' {
		t.Fatalf("unexpected candidate: %+v", c)
	}
}

func TestCheckSuffix(t *testing.T) {
	rs := mustParse(t)
	lookup := dictLookup(map[string]string{"cat": "B"})

	c, ok := rs.Check("cats", lookup)
	if !ok {
		t.Fatalf("expected cats to check out via suffix B")
	}
	if c.Root != "cat" || c.Suffix == nil || c.Suffix.Flag != 'B' {
		t.Fatalf("unexpected candidate: %+v", c)
	}
}

func TestCheckRejectsUnflaggedRoot(t *testing.T) {
	rs := mustParse(t)
	lookup := dictLookup(map[string]string{"happy": ""})

	if _, ok := rs.Check("unhappy", lookup); ok {
		t.Fatalf("expected check to fail when root lacks flag A")
	}
}

func TestExpandRoundTripsWithMunch(t *testing.T) {
	rs := mustParse(t)

	derived := rs.Expand("happy", "A")
	found := false
	for _, d := range derived {
		if d.Word == "unhappy" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expand(happy, A) = %v, want to contain unhappy", derived)
	}

	candidates := rs.Munch("unhappy")
	found = false
	for _, c := range candidates {
		if c.Root == "happy" && c.Prefix != nil && c.Prefix.Flag == 'A' {
			found = true
		}
	}
	if !found {
		t.Fatalf("Munch(unhappy) = %+v, want to contain (happy, A)", candidates)
	}
}

func TestConditionGroup(t *testing.T) {
	rules := `SFX C Y 1
SFX C 0 ed [^y]
`
	rs, err := ParseRules(strings.NewReader(rules))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	lookup := dictLookup(map[string]string{"walk": "C", "cry": "C"})

	if _, ok := rs.Check("walked", lookup); !ok {
		t.Fatalf("expected walked to check out")
	}
	if _, ok := rs.Check("cryed", lookup); ok {
		t.Fatalf("expected cryed to be rejected by [^y] condition")
	}
}
