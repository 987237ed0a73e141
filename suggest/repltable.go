package suggest

import (
	"bufio"
	"io"
	"strings"

	"github.com/speldict/aspellgo/errs"
)

// ReplRule is one language-level "this substring is often mistyped as
// that one" rule, e.g. "ph" -> "f".
type ReplRule struct {
	From string
	To   string
}

// ParseReplTable reads a language's replacement table: one "from to" pair
// per line, blank lines and '#' comments ignored.
func ParseReplTable(r io.Reader) ([]ReplRule, error) {
	var rules []ReplRule
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, errs.New(errs.BadFileFormat, "replacement table line must have two fields, got %q", text).At("<repl-table>", line)
		}
		rules = append(rules, ReplRule{From: fields[0], To: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.IO, err, "reading replacement table")
	}
	return rules, nil
}

// applyReplRules substitutes every occurrence of rule.From in word with rule.To, one
// occurrence at a time, returning the resulting candidate words.
func applyReplRules(word string, rules []ReplRule) []string {
	var out []string
	for _, rule := range rules {
		from := rule.From
		if from == "" {
			continue
		}
		start := 0
		for {
			i := strings.Index(word[start:], from)
			if i < 0 {
				break
			}
			pos := start + i
			candidate := word[:pos] + rule.To + word[pos+len(from):]
			out = append(out, candidate)
			start = pos + len(from)
			if start > len(word) {
				break
			}
		}
	}
	return out
}
