package soundslike

import (
	"strings"
	"testing"
)

func TestLoadPhonetRulesRequiresVersion(t *testing.T) {
	_, err := LoadPhonetRules("test", strings.NewReader("ph -> f\n"))
	if err == nil {
		t.Fatal("LoadPhonetRules with no version line: want error, got nil")
	}
}

func TestLoadPhonetRulesRejectsMalformedRule(t *testing.T) {
	_, err := LoadPhonetRules("test", strings.NewReader("version 1.0\nph f\n"))
	if err == nil {
		t.Fatal("LoadPhonetRules with a rule missing '->': want error, got nil")
	}
}

func TestToSoundslikeAppliesRules(t *testing.T) {
	cases := []struct {
		name string
		rules string
		in   string
		want string
	}{
		{
			name:  "simple substitution",
			rules: "version 1.0\nph -> f\n",
			in:    "phone",
			want:  "fone",
		},
		{
			name:  "begin anchor only fires at word start",
			rules: "version 1.0\n^kn -> n\n",
			in:    "know",
			want:  "now",
		},
		{
			name:  "end anchor only fires at word end",
			rules: "version 1.0\nmb$ -> m\n",
			in:    "comb",
			want:  "com",
		},
		{
			name:  "character class alternatives",
			rules: "version 1.0\nc(ie) -> s\n",
			in:    "cite",
			want:  "ste",
		},
		{
			name:  "higher priority rule wins over a shorter default",
			rules: "version 1.0\n1 tion -> sh\nt -> t\n",
			in:    "station",
			want:  "stash",
		},
		{
			name:  "unmatched bytes pass through unchanged",
			rules: "version 1.0\nph -> f\n",
			in:    "cat",
			want:  "cat",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := LoadPhonetRules("test", strings.NewReader(c.rules))
			if err != nil {
				t.Fatalf("LoadPhonetRules: %v", err)
			}
			if got := p.ToSoundslike(c.in); got != c.want {
				t.Errorf("ToSoundslike(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestToSoundslikeSkipsNoDeriveRuleAfterASubstitution(t *testing.T) {
	rules := "version 1.0\na -> x\n!c -> y\nc -> z\n"

	p, err := LoadPhonetRules("test", strings.NewReader(rules))
	if err != nil {
		t.Fatalf("LoadPhonetRules: %v", err)
	}

	// "a -> x" fires at position 0, so the noDerive "!c -> y" rule must be
	// skipped at position 1 and the plain "c -> z" rule used instead.
	if got, want := p.ToSoundslike("ac"), "xz"; got != want {
		t.Errorf("ToSoundslike(ac) = %q, want %q", got, want)
	}

	// At position 0 nothing preceded it, so the noDerive rule still fires
	// normally.
	if got, want := p.ToSoundslike("ca"), "yx"; got != want {
		t.Errorf("ToSoundslike(ca) = %q, want %q", got, want)
	}
}

func TestLoadPhonetRulesReportsVersion(t *testing.T) {
	p, err := LoadPhonetRules("test", strings.NewReader("version 7\nph -> f\n"))
	if err != nil {
		t.Fatalf("LoadPhonetRules: %v", err)
	}
	if p.Name() != "test" {
		t.Errorf("Name() = %q, want %q", p.Name(), "test")
	}
	if p.Version() != 7 {
		t.Errorf("Version() = %d, want 7", p.Version())
	}
}
