package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"aspellgo": aspellgo,
	}))
}

// TestScripts drives the compiled driver end to end against a tiny,
// generated fixture language: create a dictionary from a word list, then
// check and suggest against it. The fixture is written fresh into each
// script's work directory rather than checked in, since it is plain ASCII
// identity tables and easier to keep correct as Go than as 256 hand-typed
// charset rows.
func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata"),
		Setup: func(env *testscript.Env) error {
			langDir := filepath.Join(env.WorkDir, "lang")
			if err := os.Mkdir(langDir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(langDir, "main.dat"), []byte(fixtureDat), 0o644); err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(langDir, "ascii.cset"), []byte(fixtureCset()), 0o644); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(env.WorkDir, "wordlist.txt"), []byte(fixtureWordlist), 0o644)
		},
	})
}

const fixtureDat = `name test
charset ascii
`

const fixtureWordlist = "hello\nworld\nfoo\nbar\n"

// fixtureCset builds a minimal ASCII charset file: plain identity case
// mapping for a-z/A-Z, everything else classified "other" except the
// space character.
func fixtureCset() string {
	s := "/ ascii identity charset\n"
	for i := 0; i < 256; i++ {
		b := byte(i)
		class := byte('o')
		lower, upper := b, b
		switch {
		case b >= 'a' && b <= 'z':
			class = 'l'
			upper = b - 'a' + 'A'
		case b >= 'A' && b <= 'Z':
			class = 'l'
			lower = b - 'A' + 'a'
		case b == ' ':
			class = 's'
		}
		s += fmt.Sprintf("%02x %02x %c 0 %02x %02x %02x %02x %02x %02x\n",
			b, b, class, upper, lower, upper, lower, lower, lower)
	}
	return s
}
