// Command aspellgo is a small driver over the spelling engine: it checks
// words from stdin against a compiled dictionary, prints suggestions for
// misspellings, and can compile a plain word list into the binary
// dictionary format the engine reads.
//
// Usage:
//
//	aspellgo check   -lang <dir> -dict <path> [-config <path>]
//	aspellgo suggest -lang <dir> -dict <path> [-config <path>]
//	aspellgo create  -lang <dir> -wordlist <path> -out <path>
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/speldict/aspellgo/affix"
	"github.com/speldict/aspellgo/compiledict"
	"github.com/speldict/aspellgo/config"
	"github.com/speldict/aspellgo/dict"
	"github.com/speldict/aspellgo/editdist"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
	"github.com/speldict/aspellgo/speller"
	"github.com/speldict/aspellgo/suggest"
)

// Exit codes, per the engine's documented driver contract.
const (
	exitSuccess          = 0
	exitInvocationError  = 1
	exitInputFormatError = 2
	exitUnimplemented    = 3
)

func main() { os.Exit(aspellgo()) }

// aspellgo runs the subcommand named by os.Args[1] and returns the process
// exit code, following the engine's documented driver contract (§6). It is
// split out from main so the testscript harness can register it as an
// in-process "binary" under its own name.
func aspellgo() int {
	if len(os.Args) < 2 {
		usage()
		return exitInvocationError
	}

	var err error
	switch os.Args[1] {
	case "check":
		err = runCheck(os.Args[2:])
	case "suggest":
		err = runSuggest(os.Args[2:])
	case "create":
		err = runCreate(os.Args[2:])
	default:
		usage()
		return exitInvocationError
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitInputFormatError
	}
	return exitSuccess
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: aspellgo <check|suggest|create> [flags]")
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	langDir := fs.String("lang", "", "directory containing <lang>.dat and charset files")
	langName := fs.String("lang-name", "", "language name (defaults to main)")
	dictPath := fs.String("dict", "", "path to a compiled .rws dictionary")
	configPath := fs.String("config", "", "path to a TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *langDir == "" || *dictPath == "" {
		return fmt.Errorf("check requires -lang and -dict")
	}

	sp, err := buildSpeller(*langDir, *langName, *dictPath, *configPath)
	if err != nil {
		return err
	}

	sc := bufio.NewScanner(os.Stdin)
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for sc.Scan() {
		word := sc.Text()
		if ok, _ := sp.Check(word); ok {
			fmt.Fprintf(w, "%s: correct\n", word)
		} else {
			fmt.Fprintf(w, "%s: misspelled\n", word)
		}
	}
	return sc.Err()
}

func runSuggest(args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	langDir := fs.String("lang", "", "directory containing <lang>.dat and charset files")
	langName := fs.String("lang-name", "", "language name (defaults to main)")
	dictPath := fs.String("dict", "", "path to a compiled .rws dictionary")
	configPath := fs.String("config", "", "path to a TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *langDir == "" || *dictPath == "" {
		return fmt.Errorf("suggest requires -lang and -dict")
	}

	sp, err := buildSpeller(*langDir, *langName, *dictPath, *configPath)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return err
		}
	}

	opts := cfg.SuggestOptions()
	if err := attachSuggestExtras(&opts, sp, cfg); err != nil {
		return err
	}

	sc := bufio.NewScanner(os.Stdin)
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for sc.Scan() {
		word := sc.Text()
		if ok, _ := sp.Check(word); ok {
			fmt.Fprintf(w, "%s: correct\n", word)
			continue
		}
		sugs := suggest.Suggest(sp, word, opts)
		fmt.Fprintf(w, "%s:", word)
		for _, s := range sugs {
			fmt.Fprintf(w, " %s", s)
		}
		fmt.Fprintln(w)
	}
	return sc.Err()
}

// attachSuggestExtras loads the optional replacement table and keyboard
// adjacency file a config may point at and attaches them to opts; suggest
// falls back to its defaults (no replacement rules, no typo re-ranking)
// when the relevant config key is empty.
func attachSuggestExtras(opts *suggest.Options, sp *speller.Speller, cfg config.Config) error {
	if cfg.ReplPath != "" {
		f, err := os.Open(cfg.ReplPath)
		if err != nil {
			return err
		}
		defer f.Close()
		rules, err := suggest.ParseReplTable(f)
		if err != nil {
			return err
		}
		opts.ReplRules = rules
	}

	if cfg.Keyboard != "" {
		f, err := os.Open(cfg.Keyboard)
		if err != nil {
			return err
		}
		defer f.Close()
		m := sp.Lang.Map
		weights, err := editdist.LoadKeyboardWeights(m.NormalizedClasses(), f, m.Normalized)
		if err != nil {
			return err
		}
		opts.TypoWeight = weights
	}
	return nil
}

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	langDir := fs.String("lang", "", "directory containing <lang>.dat and charset files")
	langName := fs.String("lang-name", "", "language name")
	wordlist := fs.String("wordlist", "", "plain word list, one word[/flags] per line")
	affixPath := fs.String("affix", "", "affix rule file (optional)")
	out := fs.String("out", "", "output path for the compiled dictionary")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *langDir == "" || *wordlist == "" || *out == "" {
		return fmt.Errorf("create requires -lang, -wordlist, and -out")
	}

	lang, err := langdata.Load(*langDir+"/"+pick(*langName, "main")+".dat", *langDir)
	if err != nil {
		return err
	}
	sl, err := soundslikeFor(*langDir, lang)
	if err != nil {
		return err
	}

	var rules *affix.RuleSet
	if *affixPath != "" {
		f, err := os.Open(*affixPath)
		if err != nil {
			return err
		}
		defer f.Close()
		rules, err = affix.ParseRules(f)
		if err != nil {
			return err
		}
	}

	wf, err := os.Open(*wordlist)
	if err != nil {
		return err
	}
	defer wf.Close()

	d, err := compiledict.Build(wf, lang, sl, compiledict.Options{Rules: rules})
	if err != nil {
		return err
	}
	return d.Save(*out)
}

func buildSpeller(langDir, langName, dictPath, configPath string) (*speller.Speller, error) {
	name := pick(langName, "main")
	lang, err := langdata.Load(langDir+"/"+name+".dat", langDir)
	if err != nil {
		return nil, err
	}
	sl, err := soundslikeFor(langDir, lang)
	if err != nil {
		return nil, err
	}

	d, err := dict.Load(dictPath, lang, sl)
	if err != nil {
		return nil, err
	}

	var rules *affix.RuleSet
	if lang.AffixName != "" && lang.AffixName != "none" {
		f, err := os.Open(langDir + "/" + lang.AffixName + ".aff")
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rules, err = affix.ParseRules(f)
		if err != nil {
			return nil, err
		}
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	sp := speller.New(lang, rules, cfg.SpellerConfig())
	sp.Attach(d, speller.RoleMain, dict.Stripped(lang.Map), true, true, false)
	return sp, nil
}

// soundslikeFor resolves the soundslike transform named by the language
// descriptor's "soundslike" key. "phonet" loads its rule file the same
// way the reference implementation does: <langDir>/<lang.Name>_phonet.dat.
func soundslikeFor(langDir string, lang *langdata.Language) (soundslike.Transform, error) {
	switch lang.SoundslikeName {
	case "generic":
		return soundslike.Generic{Map: lang.Map}, nil
	case "phonet":
		f, err := os.Open(langDir + "/" + lang.Name + "_phonet.dat")
		if err != nil {
			return nil, err
		}
		defer f.Close()
		p, err := soundslike.LoadPhonetRules(lang.Name, f)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "none", "":
		return soundslike.None{Map: lang.Map}, nil
	default:
		return soundslike.None{Map: lang.Map}, nil
	}
}

func pick(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
