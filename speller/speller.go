// Package speller composes a language, an affix rule set, and a list of
// attached dictionaries into the check/suggest engine a caller talks to.
package speller

import (
	"sort"
	"strings"

	"github.com/speldict/aspellgo/affix"
	"github.com/speldict/aspellgo/dict"
	"github.com/speldict/aspellgo/langdata"
)

// Role identifies why a dictionary was attached, mostly for save_all and
// reporting purposes.
type Role int

const (
	RoleMain Role = iota
	RolePersonal
	RoleSession
	RoleRepl
	RoleExtra
)

// Attachment is one dictionary bound into a Speller's check/suggest
// pipeline, along with the comparison policy and flags that govern how it
// participates.
type Attachment struct {
	ID              int
	Dict            dict.Dict
	Compare         dict.SensitiveCompare
	Role            Role
	UseToCheck      bool
	UseToSuggest    bool
	SaveOnSaveAll   bool
}

// Config holds the check-relevant options §6 of the language model design
// documents (ignore, run-together, accent/case folding).
type Config struct {
	Ignore           int
	IgnoreCase       bool
	IgnoreAccents    bool
	RunTogether      bool
	RunTogetherLimit int
	RunTogetherMin   int
	StripAccents     bool
}

// DefaultConfig returns the engine's documented defaults.
func DefaultConfig() Config {
	return Config{
		RunTogetherLimit: 8,
		RunTogetherMin:   3,
	}
}

// CheckInfo describes how a word was accepted: directly, via affix
// stripping, or via run-together decomposition (in which case
// CompoundNext links to the check result for the remainder).
type CheckInfo struct {
	Word         string
	PrefixStrip  string
	PrefixAdd    string
	SuffixStrip  string
	SuffixAdd    string
	PreFlag      byte
	SufFlag      byte
	CompoundNext *CheckInfo
	Guess        bool
}

// Speller composes a language, an affix rule set, and any number of
// attached dictionaries, and drives the check pipeline over them. Not
// safe for concurrent use by multiple goroutines; distinct Spellers may
// share a cached ReadOnlyDict (see package dict's Cache) without locking,
// since its bytes are read-only after load.
type Speller struct {
	Lang  *langdata.Language
	Rules *affix.RuleSet
	Cfg   Config

	attachments []*Attachment
	nextID      int

	checkWS        []*Attachment
	affixWS        []*Attachment
	suggestWS      []*Attachment
	suggestAffixWS []*Attachment
}

// New returns a Speller with no attached dictionaries.
func New(lang *langdata.Language, rules *affix.RuleSet, cfg Config) *Speller {
	return &Speller{Lang: lang, Rules: rules, Cfg: cfg}
}

// Attach adds d to the Speller's attachment list and returns its ID (used
// with Detach). The attachment lists consulted by Check/Suggest are
// rebuilt before Attach returns.
func (s *Speller) Attach(d dict.Dict, role Role, cmp dict.SensitiveCompare, useToCheck, useToSuggest, saveOnSaveAll bool) int {
	s.nextID++
	a := &Attachment{
		ID: s.nextID, Dict: d, Compare: cmp, Role: role,
		UseToCheck: useToCheck, UseToSuggest: useToSuggest, SaveOnSaveAll: saveOnSaveAll,
	}
	s.attachments = append(s.attachments, a)
	s.reorganize()
	return a.ID
}

// Detach removes the attachment with the given ID, if present.
func (s *Speller) Detach(id int) {
	for i, a := range s.attachments {
		if a.ID == id {
			s.attachments = append(s.attachments[:i], s.attachments[i+1:]...)
			s.reorganize()
			return
		}
	}
}

// reorganize rebuilds the check/suggest attachment lists, larger
// dictionaries first within each list so affix-compressed, high-yield
// dicts are scanned before small ones.
func (s *Speller) reorganize() {
	s.checkWS = filterAttachments(s.attachments, func(a *Attachment) bool { return a.UseToCheck })
	s.affixWS = filterAttachments(s.checkWS, func(a *Attachment) bool { return a.Dict.AffixCompressed() })
	s.suggestWS = filterAttachments(s.attachments, func(a *Attachment) bool { return a.UseToSuggest })
	s.suggestAffixWS = filterAttachments(s.suggestWS, func(a *Attachment) bool { return a.Dict.AffixCompressed() })

	bigFirst := func(list []*Attachment) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Dict.Size() > list[j].Dict.Size() })
	}
	bigFirst(s.checkWS)
	bigFirst(s.affixWS)
	bigFirst(s.suggestWS)
	bigFirst(s.suggestAffixWS)
}

func filterAttachments(in []*Attachment, keep func(*Attachment) bool) []*Attachment {
	var out []*Attachment
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// CheckWS returns the attachments used to check, in scan order.
func (s *Speller) CheckWS() []*Attachment { return s.checkWS }

// SuggestWS returns the attachments used to suggest, in scan order.
func (s *Speller) SuggestWS() []*Attachment { return s.suggestWS }

// Check decides whether word is correctly spelled: a direct lookup in any
// check dictionary, then an affix-stripped lookup, then (if enabled)
// run-together decomposition.
func (s *Speller) Check(word string) (bool, *CheckInfo) {
	skip := s.leadingIgnored(word)
	if skip >= len(word) {
		return true, nil
	}
	core := word[skip:]

	if ok, info := s.checkDirectOrAffix(core); ok {
		return true, info
	}

	if s.Cfg.RunTogether && s.Cfg.RunTogetherLimit > 0 {
		if info, ok := s.checkRunTogether(core, s.Cfg.RunTogetherLimit); ok {
			return true, info
		}
	}

	return false, nil
}

func (s *Speller) leadingIgnored(word string) int {
	n := s.Cfg.Ignore
	if n <= 0 {
		return 0
	}
	i := 0
	for i < len(word) && i < n {
		if s.Lang.Map.IsAlpha(word[i]) {
			break
		}
		i++
	}
	return i
}

// checkRunTogether tries every split point between RunTogetherMin and
// len-RunTogetherMin, accepting the first split where both halves check
// out (recursively, so either half may itself be a compound, bounded by
// limit).
func (s *Speller) checkRunTogether(word string, limit int) (*CheckInfo, bool) {
	min := s.Cfg.RunTogetherMin
	if min <= 0 || len(word) < 2*min || limit <= 0 {
		return nil, false
	}
	for i := min; i <= len(word)-min; i++ {
		left, right := word[:i], word[i:]
		leftOK, leftInfo := s.checkPart(left, limit-1)
		if !leftOK {
			continue
		}
		rightOK, rightInfo := s.checkPart(right, limit-1)
		if !rightOK {
			continue
		}
		leftInfo.CompoundNext = rightInfo
		return leftInfo, true
	}
	return nil, false
}

// checkDirectOrAffix tries a direct dictionary lookup, then (if the word
// didn't match directly) an affix-stripped lookup — the same two checks
// Check itself performs on the whole word, shared here so that every
// run-together split is held to the same standard as a top-level word.
func (s *Speller) checkDirectOrAffix(word string) (bool, *CheckInfo) {
	for _, a := range s.checkWS {
		if hits := a.Dict.Lookup(word, a.Compare); len(hits) > 0 {
			return true, &CheckInfo{Word: word}
		}
	}

	if len(s.affixWS) > 0 && s.Rules != nil {
		lookup := func(candidate string) (string, bool) {
			for _, a := range s.affixWS {
				if hits := a.Dict.CleanLookup(candidate); len(hits) > 0 {
					return hits[0].Flags, true
				}
			}
			return "", false
		}
		if c, ok := s.Rules.Check(word, lookup); ok {
			info := &CheckInfo{Word: word}
			if c.Prefix != nil {
				info.PrefixStrip, info.PrefixAdd, info.PreFlag = c.Prefix.Strip, c.Prefix.Append, c.Prefix.Flag
			}
			if c.Suffix != nil {
				info.SuffixStrip, info.SuffixAdd, info.SufFlag = c.Suffix.Strip, c.Suffix.Append, c.Suffix.Flag
			}
			return true, info
		}
	}

	return false, nil
}

func (s *Speller) checkPart(word string, limit int) (bool, *CheckInfo) {
	if ok, info := s.checkDirectOrAffix(word); ok {
		return true, info
	}
	if s.Cfg.RunTogether && limit > 0 {
		if info, ok := s.checkRunTogether(word, limit); ok {
			return true, info
		}
	}
	return false, nil
}

// personalRepl locates the attached Repl dictionary, if any.
func (s *Speller) personalRepl() (*dict.ReplDict, bool) {
	for _, a := range s.attachments {
		if r, ok := a.Dict.(*dict.ReplDict); ok && a.Role == RoleRepl {
			return r, true
		}
	}
	return nil, false
}

// StoreReplacement records that cor is a correction for the misspelling
// mis, provided cor itself checks out, writing (lower(mis), cor) into the
// attached replacement dictionary unless it is already the first entry.
func (s *Speller) StoreReplacement(mis, cor string) error {
	ok, _ := s.Check(cor)
	if !ok {
		return nil
	}
	repl, found := s.personalRepl()
	if !found {
		return nil
	}
	lower := strings.ToLower(mis)
	existing := repl.ReplLookup(lower)
	if len(existing) > 0 && existing[0] == cor {
		return nil
	}
	return repl.AddRepl(lower, cor)
}
