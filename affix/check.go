package affix

// LookupFunc reports whether candidate is a dictionary root, returning the
// flag string attached to it (so callers can verify the affix being
// applied is one the root actually permits) and whether it was found.
type LookupFunc func(candidate string) (flags string, ok bool)

// Candidate is a single successful affix decomposition of a surface word:
// the discovered root plus which prefix/suffix entries, if any, produced
// it.
type Candidate struct {
	Root   string
	Prefix *Entry
	Suffix *Entry
}

// hasFlag reports whether flag appears in a root's flag string.
func hasFlag(flags string, flag byte) bool {
	for i := 0; i < len(flags); i++ {
		if flags[i] == flag {
			return true
		}
	}
	return false
}

// Check tries to strip one prefix and/or one suffix from word such that
// the residual root is accepted by lookup and carries the flag the
// stripped rule requires. Cross-product application (both a prefix and a
// suffix at once) is only attempted when both entries are flagged
// cross-product.
//
// Suffixes are tried first against the bare word, then prefixes (aspell's
// own affix_check tries prefixes first, then suffixes; the order is
// reversed here only to rule out the cheaper plain-suffix match before the
// prefix+cross-product search, which doesn't change whether word is
// accepted — both sides run regardless — only which valid derivation, if
// several exist, is returned), then prefix findings are re-checked for a
// compatible cross-product suffix.
func (r *RuleSet) Check(word string, lookup LookupFunc) (Candidate, bool) {
	if c, ok := r.suffixCheck(word, lookup, nil); ok {
		return c, true
	}
	return r.prefixCheck(word, lookup)
}

func (r *RuleSet) prefixCheck(word string, lookup LookupFunc) (Candidate, bool) {
	for _, e := range r.Prefixes.Lookup(word) {
		root := e.Strip + word[len(e.Append):]
		if !e.matchesCondition(root) {
			continue
		}
		if flags, ok := lookup(root); ok && hasFlag(flags, e.Flag) {
			return Candidate{Root: root, Prefix: e}, true
		}
		if e.CrossProduct {
			if c, ok := r.suffixCheck(root, lookup, e); ok {
				return c, true
			}
		}
	}
	return Candidate{}, false
}

func (r *RuleSet) suffixCheck(word string, lookup LookupFunc, pfx *Entry) (Candidate, bool) {
	rev := reverseString(word)
	for _, e := range r.Suffixes.Lookup(rev) {
		if len(e.Append) > len(word) {
			continue
		}
		stem := word[:len(word)-len(e.Append)]
		root := stem + e.Strip
		if !e.matchesCondition(reverseString(root)) {
			continue
		}
		if pfx != nil && !e.CrossProduct {
			continue
		}
		if flags, ok := lookup(root); ok && hasFlag(flags, e.Flag) && (pfx == nil || hasFlag(flags, pfx.Flag)) {
			return Candidate{Root: root, Prefix: pfx, Suffix: e}, true
		}
	}
	return Candidate{}, false
}

// DerivedWord is one legal surface form an Expand call produced, together
// with the rule(s) that produced it.
type DerivedWord struct {
	Word   string
	Prefix *Entry
	Suffix *Entry
}

// Expand enumerates every surface form derivable from root under flags:
// each prefix whose flag is in flags and whose Strip matches root's start
// and whose condition passes; each suffix symmetrically; and, where both
// sides allow cross-product, every prefix+suffix combination.
func (r *RuleSet) Expand(root string, flags string) []DerivedWord {
	var out []DerivedWord

	var pfxHits, sfxHits []*Entry
	for flagIdx := 0; flagIdx < len(flags); flagIdx++ {
		flag := flags[flagIdx]
		for _, bucket := range r.Prefixes.buckets {
			for _, e := range bucket {
				if e.Flag != flag {
					continue
				}
				if len(e.Strip) > len(root) || root[:len(e.Strip)] != e.Strip {
					continue
				}
				if !e.matchesCondition(root) {
					continue
				}
				pfxHits = append(pfxHits, e)
				out = append(out, DerivedWord{Word: e.Append + root[len(e.Strip):], Prefix: e})
			}
		}
		for _, bucket := range r.Suffixes.buckets {
			for _, e := range bucket {
				if e.Flag != flag {
					continue
				}
				if len(e.Strip) > len(root) || root[len(root)-len(e.Strip):] != e.Strip {
					continue
				}
				if !e.matchesCondition(reverseString(root)) {
					continue
				}
				sfxHits = append(sfxHits, e)
				stem := root[:len(root)-len(e.Strip)]
				out = append(out, DerivedWord{Word: stem + e.Append, Suffix: e})
			}
		}
	}

	for _, p := range pfxHits {
		if !p.CrossProduct {
			continue
		}
		for _, s := range sfxHits {
			if !s.CrossProduct {
				continue
			}
			if len(p.Strip) > len(root) || root[:len(p.Strip)] != p.Strip {
				continue
			}
			if len(s.Strip) > len(root) || root[len(root)-len(s.Strip):] != s.Strip {
				continue
			}
			mid := p.Append + root[len(p.Strip):len(root)-len(s.Strip)] + s.Append
			out = append(out, DerivedWord{Word: mid, Prefix: p, Suffix: s})
		}
	}

	return out
}

// Munch is the inverse of Expand: given a surface form, it returns every
// (root, flag) pair that could have produced it under this rule set.
func (r *RuleSet) Munch(word string) []Candidate {
	var out []Candidate
	for _, e := range r.Prefixes.Lookup(word) {
		root := e.Strip + word[len(e.Append):]
		if e.matchesCondition(root) {
			out = append(out, Candidate{Root: root, Prefix: e})
		}
	}
	rev := reverseString(word)
	for _, e := range r.Suffixes.Lookup(rev) {
		if len(e.Append) > len(word) {
			continue
		}
		stem := word[:len(word)-len(e.Append)]
		root := stem + e.Strip
		if e.matchesCondition(reverseString(root)) {
			out = append(out, Candidate{Root: root, Suffix: e})
		}
	}
	return out
}
