// Package config loads the engine's TOML-backed option set — the
// check-relevant and suggest-relevant keys a driver exposes to users —
// and translates it into the typed structs speller and suggest consume.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/speldict/aspellgo/errs"
	"github.com/speldict/aspellgo/speller"
	"github.com/speldict/aspellgo/suggest"
)

// Config is the full set of user-tunable options, loadable from a TOML
// file and overridable from the command line by a driver.
type Config struct {
	Lang string `toml:"lang"`

	Ignore           int  `toml:"ignore"`
	IgnoreCase       bool `toml:"ignore-case"`
	IgnoreAccents    bool `toml:"ignore-accents"`
	RunTogether      bool `toml:"run-together"`
	RunTogetherLimit int  `toml:"run-together-limit"`
	RunTogetherMin   int  `toml:"run-together-min"`
	StripAccents     bool `toml:"strip-accents"`

	SugMode         string `toml:"sug-mode"`
	SugEditDist     int    `toml:"sug-edit-dist"`
	SugTypoAnalysis bool   `toml:"sug-typo-analysis"`
	SugReplTable    bool   `toml:"sug-repl-table"`
	SugSplitChars   string `toml:"sug-split-chars"`
	Keyboard        string `toml:"keyboard"`

	PersonalPath string `toml:"personal-path"`
	ReplPath     string `toml:"repl-path"`
}

// Default returns the engine's documented baseline configuration.
func Default() Config {
	return Config{
		Lang:             "en_US",
		RunTogetherLimit: 8,
		RunTogetherMin:   3,
		SugMode:          "normal",
		SugEditDist:      2,
		SugTypoAnalysis:  true,
		SugReplTable:     true,
		SugSplitChars:    " -",
	}
}

// Load reads a TOML config file over top of Default, so a file that only
// sets a few keys still produces a fully populated Config.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, errs.Wrap(errs.IO, err, "opening config file %s", path)
		}
		return cfg, errs.Wrap(errs.BadFileFormat, err, "parsing config file %s", path)
	}
	return cfg, nil
}

// SpellerConfig projects the check-relevant keys into a speller.Config.
func (c Config) SpellerConfig() speller.Config {
	return speller.Config{
		Ignore:           c.Ignore,
		IgnoreCase:       c.IgnoreCase,
		IgnoreAccents:    c.IgnoreAccents,
		RunTogether:      c.RunTogether,
		RunTogetherLimit: c.RunTogetherLimit,
		RunTogetherMin:   c.RunTogetherMin,
		StripAccents:     c.StripAccents,
	}
}

// SuggestOptions projects SugMode and SugSplitChars into a suggest.Options.
// SugEditDist, SugTypoAnalysis and SugReplTable are not carried over:
// suggest.Options has no field for them, and the mode alone decides the
// edit-distance level and which pipeline steps run. ReplRules/TypoWeight
// require loading a file and so are left to the caller to attach.
func (c Config) SuggestOptions() suggest.Options {
	return suggest.Options{
		Mode:       suggest.ParseMode(c.SugMode),
		SplitChars: c.SugSplitChars,
	}
}
