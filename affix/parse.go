package affix

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/speldict/aspellgo/errs"
)

// RuleSet is a fully loaded, chain-linked affix rule file: one Table for
// prefixes, one for suffixes, plus the cross-product flag per header
// (whether a rule under this flag may combine with a rule of the other
// kind that is also cross-product flagged).
type RuleSet struct {
	Prefixes *Table
	Suffixes *Table

	// crossProduct[flag] is true iff the header for that flag (of either
	// kind) specified the Y cross-product indicator.
	crossProduct map[byte]bool
}

// CrossProduct reports whether flag was declared cross-product in its
// header line.
func (r *RuleSet) CrossProduct(flag byte) bool { return r.crossProduct[flag] }

// ParseRules parses an affix rule file: a sequence of rule groups, each a
// header line followed by count entry lines.
//
// Header:  PFX <flag> <Y|N> <count>   or   SFX <flag> <Y|N> <count>
// Entry:   PFX <flag> <strip|0> <append|0> <condition>
//
// strip and append of "0" denote the empty string. condition follows the
// syntax documented on parseCondition.
func ParseRules(r io.Reader) (*RuleSet, error) {
	var prefixes, suffixes []*Entry
	crossProduct := make(map[byte]bool)

	sc := bufio.NewScanner(r)
	line := 0
	var (
		curKind   Kind
		curFlag   byte
		curCross  bool
		remaining int
		inGroup   bool
	)

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		isHeader := !inGroup
		if inGroup && len(fields) == 4 {
			isHeader = true
		}

		if isHeader {
			if len(fields) != 4 {
				return nil, errs.New(errs.BadFileFormat, "malformed affix header: %q", text).At("<affix>", line)
			}
			switch fields[0] {
			case "PFX":
				curKind = Prefix
			case "SFX":
				curKind = Suffix
			default:
				return nil, errs.New(errs.BadFileFormat, "expected PFX or SFX, got %q", fields[0]).At("<affix>", line)
			}
			if len(fields[1]) != 1 {
				return nil, errs.New(errs.InvalidFlag, "affix flag must be one character: %q", fields[1]).At("<affix>", line)
			}
			curFlag = fields[1][0]
			curCross = fields[2] == "Y"
			if fields[2] != "Y" && fields[2] != "N" {
				return nil, errs.New(errs.BadFileFormat, "cross-product indicator must be Y or N: %q", fields[2]).At("<affix>", line)
			}
			n, err := strconv.Atoi(fields[3])
			if err != nil || n < 0 {
				return nil, errs.New(errs.BadFileFormat, "malformed entry count: %q", fields[3]).At("<affix>", line)
			}
			crossProduct[curFlag] = crossProduct[curFlag] || curCross
			remaining = n
			inGroup = n > 0
			continue
		}

		// entry line
		if fields[0] != "PFX" && fields[0] != "SFX" {
			return nil, errs.New(errs.BadFileFormat, "expected affix entry, got %q", text).At("<affix>", line)
		}
		if len(fields) != 5 {
			return nil, errs.New(errs.BadFileFormat, "malformed affix entry: %q", text).At("<affix>", line)
		}
		if len(fields[1]) != 1 || fields[1][0] != curFlag {
			return nil, errs.New(errs.InvalidFlag, "entry flag %q does not match header flag %q", fields[1], string(curFlag)).At("<affix>", line)
		}

		strip := fields[2]
		if strip == "0" {
			strip = ""
		}
		appnd := fields[3]
		if appnd == "0" {
			appnd = ""
		}
		mask, numConds, err := parseCondition(fields[4])
		if err != nil {
			return nil, err
		}

		e := &Entry{
			Flag:         curFlag,
			Strip:        strip,
			Append:       appnd,
			CrossProduct: curCross,
			condMask:     mask,
			numConds:     numConds,
		}
		if curKind == Prefix {
			e.Key = appnd
			prefixes = append(prefixes, e)
		} else {
			e.Key = reverseString(appnd)
			suffixes = append(suffixes, e)
		}

		remaining--
		if remaining <= 0 {
			inGroup = false
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.IO, err, "reading affix rule file")
	}

	return &RuleSet{
		Prefixes:     buildTable(Prefix, prefixes),
		Suffixes:     buildTable(Suffix, suffixes),
		crossProduct: crossProduct,
	}, nil
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
