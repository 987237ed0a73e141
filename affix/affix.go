// Package affix implements the prefix/suffix compression system: parsing
// rule files, expanding a root word into every surface form its flags
// allow, and the reverse — recovering roots and flags from a surface form.
//
// Grounded on the real aspell/hunspell affix file grammar (see the
// condition-mask encoder this package's ParseRules mirrors) and on the
// subset-chain acceleration aspell's AffixMgr builds over its sorted
// prefix/suffix lists.
package affix

import (
	"strings"

	"github.com/speldict/aspellgo/errs"
)

// Kind distinguishes a prefix rule table from a suffix rule table.
type Kind int

const (
	Prefix Kind = iota
	Suffix
)

// Entry is one affix rule: strip Strip off the root (if present) and
// append Append in its place.
//
// Key is the chain key used for sorting and subset-chain matching: for a
// prefix it is Append itself; for a suffix it is the reverse of Append, so
// that matching proceeds from the point of attachment inward, the same way
// for both kinds.
type Entry struct {
	Flag         byte
	Strip        string
	Append       string
	Key          string
	CrossProduct bool

	condMask [256]uint32
	numConds int

	// nextNe indexes into the owning Table's bucket slice, following an
	// "arena + index, not back-pointers" layout for what would otherwise
	// be a cyclic pointer structure. -1 means absent. It skips the whole
	// contiguous run of entries whose Key this entry's Key is a prefix
	// of, once that run stops matching; entries within the run are
	// already contiguous in bucket order, so no separate "next match"
	// link is needed to visit them.
	nextNe int
}

// parseCondition compiles an affix condition string into a bitmask table:
// condMask[b] has bit i set iff byte b is accepted at window position i.
// Syntax: '.' accepts any byte at that position; "[abc]" accepts a, b, or
// c; "[^abc]" accepts anything except a, b, or c; any other byte is a
// literal accepting only itself. A bare "." (the entire string) means "no
// condition" and is encoded as numConds == 0.
func parseCondition(cond string) ([256]uint32, int, error) {
	var mask [256]uint32
	if cond == "." {
		return mask, 0, nil
	}

	n := 0
	i := 0
	for i < len(cond) {
		if n >= 32 {
			return mask, 0, errs.New(errs.BadFileFormat, "affix condition has more than 32 positions: %q", cond)
		}
		c := cond[i]
		switch {
		case c == '[':
			end := strings.IndexByte(cond[i:], ']')
			if end < 0 {
				return mask, 0, errs.New(errs.BadFileFormat, "unterminated character group in condition: %q", cond)
			}
			group := cond[i+1 : i+end]
			neg := strings.HasPrefix(group, "^")
			if neg {
				group = group[1:]
			}
			if neg {
				for b := 0; b < 256; b++ {
					mask[b] |= 1 << uint(n)
				}
				for k := 0; k < len(group); k++ {
					mask[group[k]] &^= 1 << uint(n)
				}
			} else {
				for k := 0; k < len(group); k++ {
					mask[group[k]] |= 1 << uint(n)
				}
			}
			i += end + 1
		case c == '.':
			for b := 0; b < 256; b++ {
				mask[b] |= 1 << uint(n)
			}
			i++
		default:
			mask[c] |= 1 << uint(n)
			i++
		}
		n++
	}
	return mask, n, nil
}

// matchesCondition reports whether window, read left to right, satisfies
// the entry's condition. Only the first numConds bytes of window are
// tested; a window shorter than numConds never matches a conditioned
// entry, and an unconditioned entry (numConds == 0) always matches.
func (e *Entry) matchesCondition(window string) bool {
	if e.numConds == 0 {
		return true
	}
	if len(window) < e.numConds {
		return false
	}
	for i := 0; i < e.numConds; i++ {
		if e.condMask[window[i]]&(1<<uint(i)) == 0 {
			return false
		}
	}
	return true
}

// Table holds one kind's (prefix or suffix) rule entries, bucketed by the
// first byte of their chain Key and sorted lexicographically within each
// bucket so that the subset-chain links computed in build.go can skip
// whole ranges of non-matching entries.
type Table struct {
	kind    Kind
	buckets [256][]*Entry
}

// Lookup returns every entry whose Key is a prefix of s, using the
// subset-chain links to avoid scanning entries that cannot match. s should
// be the word (for a prefix table) or the reversed word (for a suffix
// table).
func (t *Table) Lookup(s string) []*Entry {
	if len(s) == 0 {
		return nil
	}
	bucket := t.buckets[s[0]]
	var out []*Entry
	if s[0] != 0 {
		// entries with an empty Key are bucketed under byte 0 by buildTable
		// and are a prefix of every s.
		for _, e := range t.buckets[0] {
			if e.Key == "" {
				out = append(out, e)
			}
		}
	}
	i := 0
	for i < len(bucket) {
		e := bucket[i]
		if strings.HasPrefix(s, e.Key) {
			out = append(out, e)
			i++
		} else {
			if e.nextNe < 0 {
				break
			}
			i = e.nextNe
		}
	}
	return out
}
