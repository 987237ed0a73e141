// Package suggest generates and ranks spelling-correction candidates for a
// misspelled word, given a Speller's attached dictionaries and affix rules.
package suggest

import (
	"sort"
	"strings"

	"github.com/speldict/aspellgo/dict"
	"github.com/speldict/aspellgo/editdist"
	"github.com/speldict/aspellgo/speller"
)

// Options configures one Suggest call beyond what Mode fixes: the
// replacement table (nil disables step 4 even if the mode wants it) and
// the keyboard-aware weights used for the optional typo re-rank (nil
// disables step 7 even if the mode wants it).
type Options struct {
	Mode       Mode
	ReplRules  []ReplRule
	TypoWeight *editdist.Weights

	// SplitChars lists the characters tried as a compound-word separator
	// in step 1; defaults to " -" when empty.
	SplitChars string
	// Skip and the n-gram fallback size follow the engine's documented
	// defaults but are exposed for callers that tune them.
	Skip          int
	NgramFallback int
}

// candidate is scoring state for one suggestion in flight, matching the
// documented per-candidate fields.
type candidate struct {
	word            string
	wordClean       string
	soundslike      string
	soundslikeScore int
	wordScore       int
	scored          bool
	score           int
}

// Suggest returns plausible corrections for word, ranked ascending by
// score (lower is better), deduplicated and case-fixed to match word's
// original capitalization.
func Suggest(sp *speller.Speller, word string, opts Options) []string {
	cfg := configFor(opts.Mode)
	pattern := sp.Lang.Map.CasePattern(word)
	clean := cleanWord(sp, word)
	sl := targetSoundslike(sp, clean)

	pool := make(map[string]*candidate)
	add := func(w string) *candidate {
		key := strings.ToLower(w)
		if c, ok := pool[key]; ok {
			return c
		}
		c := &candidate{word: w, wordClean: cleanWord(sp, w)}
		pool[key] = c
		return c
	}

	splitChars := opts.SplitChars
	if splitChars == "" {
		splitChars = " -"
	}
	weights := editdist.DefaultWeights()

	// 1. Split.
	for i := 2; i <= len(word)-2; i++ {
		left, right := word[:i], word[i:]
		leftOK, _ := sp.Check(left)
		if !leftOK {
			continue
		}
		rightOK, _ := sp.Check(right)
		if !rightOK {
			continue
		}
		for _, sep := range splitChars {
			c := add(left + string(sep) + right)
			setWordScore(c, int(float64(weights.ExtraDis2)*1.5))
		}
	}

	// 2. One-edit perturbations.
	oneEditCandidates(sp, clean, weights, add)

	// 3. Soundslike scan.
	limit := weights.Max
	if cfg.soundslikeLevel == 2 {
		limit *= 2
	}
	for _, a := range sp.SuggestWS() {
		soundslikeScan(a.Dict, sl, limit, add)
	}

	// 4. Replacement table.
	if cfg.useReplTable {
		for _, w := range applyReplRules(word, opts.ReplRules) {
			if ok, _ := sp.Check(w); ok {
				c := add(w)
				setWordScore(c, int(float64(weights.ReplDis2)*1.5))
			}
		}
	}

	// 5. N-gram fallback.
	fallbackN := opts.NgramFallback
	if fallbackN <= 0 {
		fallbackN = 20
	}
	if len(pool) < 5 {
		ngramScan(sp, sl, fallbackN, add)
	}

	// 6. Score remaining candidates.
	skip := opts.Skip
	if skip <= 0 {
		skip = 2
	}
	span := cfg.span
	for _, c := range pool {
		c.soundslike = sl
		c.soundslikeScore = editdist.WeightedDistance(c.soundslike, targetSoundslike(sp, c.wordClean), weights, sp.Lang.Map.Normalized)
		if !c.scored {
			d := editdist.WeightedDistance(c.wordClean, clean, weights, sp.Lang.Map.Normalized)
			setWordScore(c, d)
		}
		finalizeScore(c, weights)
	}

	ordered := sortedCandidates(pool)
	threshold := span
	if len(ordered) > skip {
		threshold = ordered[skip].score + span
	}
	var kept []*candidate
	for _, c := range ordered {
		if c.score <= threshold || len(kept) < 3 {
			kept = append(kept, c)
		}
	}

	// 7. Typo re-rank.
	if cfg.useTypo && opts.TypoWeight != nil {
		for _, c := range kept {
			c.wordScore = editdist.WeightedDistance(normalizeWord(sp, c.wordClean), normalizeWord(sp, clean), opts.TypoWeight, sp.Lang.Map.Normalized)
			finalizeScore(c, weights)
		}
		sort.SliceStable(kept, func(i, j int) bool {
			if kept[i].score != kept[j].score {
				return kept[i].score < kept[j].score
			}
			return kept[i].word < kept[j].word
		})
	}

	// 8. Finalize: dedupe (map already ensures this), restrict to limit,
	// fix case.
	if len(kept) > cfg.limit {
		kept = kept[:cfg.limit]
	}
	out := make([]string, len(kept))
	for i, c := range kept {
		out[i] = sp.Lang.Map.FixCase(pattern, c.word)
	}
	return out
}

func setWordScore(c *candidate, score int) {
	if !c.scored || score < c.wordScore {
		c.wordScore = score
		c.scored = true
	}
}

func finalizeScore(c *candidate, w *editdist.Weights) {
	const wordWeight, soundslikeWeight = 100, 50
	c.score = (wordWeight*c.wordScore + soundslikeWeight*c.soundslikeScore) / 100
}

func sortedCandidates(pool map[string]*candidate) []*candidate {
	out := make([]*candidate, 0, len(pool))
	for _, c := range pool {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score < out[j].score
		}
		return out[i].word < out[j].word
	})
	return out
}

func cleanWord(sp *speller.Speller, word string) string {
	m := sp.Lang.Map
	buf := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		buf[i] = m.ToClean(word[i])
	}
	return string(buf)
}

func normalizeWord(sp *speller.Speller, word string) string {
	m := sp.Lang.Map
	buf := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		buf[i] = m.Normalized(word[i])
	}
	return string(buf)
}

func targetSoundslike(sp *speller.Speller, clean string) string {
	buf := make([]byte, len(clean))
	for i := 0; i < len(clean); i++ {
		if i == 0 {
			buf[i] = sp.Lang.Map.SoundslikeFirst(clean[i])
		} else {
			buf[i] = sp.Lang.Map.SoundslikeRest(clean[i])
		}
	}
	return string(buf)
}

// oneEditCandidates enumerates every substitution, adjacent transposition,
// insertion, and deletion of clean, looking each up directly in every
// suggest dictionary's clean index.
func oneEditCandidates(sp *speller.Speller, clean string, w *editdist.Weights, add func(string) *candidate) {
	letters := cleanLetters(sp)

	lookup := func(candidateWord string) bool {
		for _, a := range sp.SuggestWS() {
			if hits := a.Dict.CleanLookup(candidateWord); len(hits) > 0 {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(clean); i++ {
		for _, l := range letters {
			if l == clean[i] {
				continue
			}
			cand := clean[:i] + string([]byte{l}) + clean[i+1:]
			if lookup(cand) {
				c := add(cand)
				setWordScore(c, w.ReplDis2)
			}
		}
	}

	for i := 0; i+1 < len(clean); i++ {
		cand := clean[:i] + clean[i+1:i+2] + clean[i:i+1] + clean[i+2:]
		if lookup(cand) {
			c := add(cand)
			setWordScore(c, w.Swap)
		}
	}

	for i := 0; i <= len(clean); i++ {
		for _, l := range letters {
			cand := clean[:i] + string([]byte{l}) + clean[i:]
			if lookup(cand) {
				c := add(cand)
				setWordScore(c, w.Missing)
			}
		}
	}

	for i := 0; i < len(clean); i++ {
		cand := clean[:i] + clean[i+1:]
		if len(cand) == 0 {
			continue
		}
		if lookup(cand) {
			c := add(cand)
			setWordScore(c, w.ExtraDis2)
		}
	}
}

// cleanLetters returns every byte that is its own clean form under the
// language's character map, the alphabet one-edit perturbation iterates.
func cleanLetters(sp *speller.Speller) []byte {
	m := sp.Lang.Map
	var out []byte
	for b := 0; b < 256; b++ {
		if m.IsAlpha(byte(b)) && m.ToClean(byte(b)) == byte(b) {
			out = append(out, byte(b))
		}
	}
	return out
}

// soundslikeScan walks d's soundslike index, adding every word under a
// soundslike within limit edits of target, skipping whole buckets once a
// soundslike's prefix has already diverged past what the jump index can
// recover from.
func soundslikeScan(d dict.Dict, target string, limit int, add func(string) *candidate) {
	it := d.SoundslikeIter()
	for {
		entry, ok := it.Next()
		if !ok {
			return
		}
		dist := editdist.LimitedDistance(entry.Soundslike, target, limit)
		if dist < 0 {
			it.SkipPast(commonPrefixLen(entry.Soundslike, target))
			continue
		}
		for _, word := range entry.Words {
			c := add(word.Word)
			setWordScore(c, dist*2)
		}
	}
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// ngramScan slides every trigram of target across each soundslike key seen
// in d's index, keeping the topN soundslikes by overlap count and adding
// their words, the fallback used when the pipeline is otherwise thin.
func ngramScan(sp *speller.Speller, target string, topN int, add func(string) *candidate) {
	grams := trigrams(target)
	if len(grams) == 0 {
		return
	}

	type scoredSL struct {
		soundslike string
		words      []dict.WordEntry
		count      int
	}
	var best []scoredSL

	for _, a := range sp.SuggestWS() {
		it := a.Dict.SoundslikeIter()
		for {
			entry, ok := it.Next()
			if !ok {
				break
			}
			count := overlapCount(grams, trigrams(entry.Soundslike))
			if count == 0 {
				continue
			}
			best = append(best, scoredSL{soundslike: entry.Soundslike, words: entry.Words, count: count})
		}
	}

	sort.SliceStable(best, func(i, j int) bool { return best[i].count > best[j].count })
	if len(best) > topN {
		best = best[:topN]
	}
	for _, s := range best {
		for _, word := range s.words {
			add(word.Word)
		}
	}
}

func trigrams(s string) []string {
	if len(s) < 3 {
		return nil
	}
	out := make([]string, 0, len(s)-2)
	for i := 0; i+3 <= len(s); i++ {
		out = append(out, s[i:i+3])
	}
	return out
}

func overlapCount(a, b []string) int {
	set := make(map[string]int, len(b))
	for _, g := range b {
		set[g]++
	}
	n := 0
	for _, g := range a {
		if set[g] > 0 {
			n++
			set[g]--
		}
	}
	return n
}
