package soundslike

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/speldict/aspellgo/errs"
)

// phonetRule is one "from -> to" line of a phonet rule file.
type phonetRule struct {
	from     string
	to       string
	anchorBegin bool // from must match at the start of the remaining word
	anchorEnd   bool // from must match at the end of the word
	classes  map[byte]string // character-class placeholders used in from, keyed by the '(' index within from
	noDerive bool // '!' — rule is skipped when following a prior substitution at the same position
	priority int
}

// Phonet is a rule-file-driven phonetic transducer. Rules are bucketed by
// the first literal byte of their "from" pattern for fast dispatch; within
// a bucket, rules are tried in descending priority, then longest from
// first, matching the C original's left-most-in-file tie-break (ties are
// broken by file order, which is preserved by a stable sort).
type Phonet struct {
	name    string
	version int
	byFirst [256][]*phonetRule
}

func (p *Phonet) Name() string { return p.name }
func (p *Phonet) Version() int { return p.version }

// LoadPhonetRules parses a phonet rule file: a "version <str>" line
// followed by one rule per line.
//
// Rule syntax: [!][priority] FROM -> TO, where:
//   - a leading "^" on FROM anchors the match to the start of the word
//   - a trailing "$" on FROM anchors the match to the end of the word
//   - "(abc)" introduces a character class matching (and consuming) one
//     of a, b, or c
//   - a leading "!" marks the rule as skipped at a position that directly
//     follows another rule's substitution (see matchRuleAt)
func LoadPhonetRules(name string, r io.Reader) (*Phonet, error) {
	p := &Phonet{name: name, version: 1}
	sc := bufio.NewScanner(r)
	line := 0
	sawVersion := false
	order := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if strings.HasPrefix(text, "version ") {
			v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(text, "version ")))
			if err == nil {
				p.version = v
			}
			sawVersion = true
			continue
		}
		rule, err := parsePhonetRule(text, order)
		if err != nil {
			return nil, errs.Wrap(errs.BadFileFormat, err, "malformed phonet rule").At("<phonet>", line)
		}
		order++
		p.byFirst[rule.firstByte()] = append(p.byFirst[rule.firstByte()], rule)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.IO, err, "reading phonet rule file")
	}
	if !sawVersion {
		return nil, errs.New(errs.BadFileFormat, "phonet rule file missing version line")
	}
	for b := range p.byFirst {
		bucket := p.byFirst[b]
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].priority != bucket[j].priority {
				return bucket[i].priority > bucket[j].priority
			}
			return len(bucket[i].from) > len(bucket[j].from)
		})
	}
	return p, nil
}

func (r *phonetRule) firstByte() byte {
	if r.from == "" {
		return 0
	}
	return r.from[0]
}

// parsePhonetRule parses one rule line. order sets the default priority
// (-order), so rules without an explicit priority are tried in file order
// (left-most-in-file wins).
func parsePhonetRule(text string, order int) (*phonetRule, error) {
	r := &phonetRule{priority: -order}

	if strings.HasPrefix(text, "!") {
		r.noDerive = true
		text = text[1:]
	}

	// Optional numeric priority prefix: "<n> FROM -> TO".
	if sp := strings.IndexByte(text, ' '); sp > 0 {
		if n, err := strconv.Atoi(text[:sp]); err == nil {
			r.priority = n
			text = strings.TrimSpace(text[sp+1:])
		}
	}

	arrow := "->"
	idx := strings.Index(text, arrow)
	if idx < 0 {
		return nil, errs.New(errs.BadFileFormat, "rule missing '->': %q", text)
	}
	from := strings.TrimSpace(text[:idx])
	to := strings.TrimSpace(text[idx+len(arrow):])

	if strings.HasPrefix(from, "^") {
		r.anchorBegin = true
		from = from[1:]
	}
	if strings.HasSuffix(from, "$") {
		r.anchorEnd = true
		from = from[:len(from)-1]
	}
	if from == "" {
		return nil, errs.New(errs.BadFileFormat, "rule has empty from pattern: %q", text)
	}

	r.from = from
	r.to = to
	r.classes = parseClasses(from)
	return r, nil
}

// parseClasses extracts "(abc)" class placeholders from from, returning a
// map from the class's starting byte offset within from to its member
// characters.
func parseClasses(from string) map[byte]string {
	classes := make(map[byte]string)
	for i := 0; i < len(from); i++ {
		if from[i] == '(' {
			end := strings.IndexByte(from[i:], ')')
			if end > 0 {
				classes[byte(i)] = from[i+1 : i+end]
			}
		}
	}
	return classes
}

// matchAt reports whether rule.from matches word at byte offset pos,
// honoring character classes and end anchoring; it does not itself check
// anchorBegin (the caller already knows pos==0 in that case).
func (r *phonetRule) matchAt(word string, pos int) (matched bool, consumed int) {
	wi := pos
	fi := 0
	for fi < len(r.from) {
		if wi >= len(word) {
			return false, 0
		}
		if r.from[fi] == '(' {
			cls, ok := r.classes[byte(fi)]
			if !ok {
				return false, 0
			}
			if strings.IndexByte(cls, word[wi]) < 0 {
				return false, 0
			}
			fi += len(cls) + 2
			wi++
			continue
		}
		if r.from[fi] != word[wi] {
			return false, 0
		}
		fi++
		wi++
	}
	consumed = wi - pos
	if r.anchorEnd && wi != len(word) {
		return false, 0
	}
	return true, consumed
}

// ToSoundslike applies the rule set left to right: at each position, the
// first matching rule (by bucket order) fires, emitting its "to" text and
// advancing past the bytes the rule matched (a character class matches one
// byte); unmatched bytes pass through
// unchanged.
func (p *Phonet) ToSoundslike(word string) string {
	var out strings.Builder
	out.Grow(len(word))
	pos := 0
	afterSub := false
	for pos < len(word) {
		if rule := p.matchRuleAt(word, pos, afterSub); rule != nil {
			_, consumed := rule.matchAt(word, pos)
			out.WriteString(rule.to)
			pos += consumed
			afterSub = true
			continue
		}
		out.WriteByte(word[pos])
		pos++
		afterSub = false
	}
	return out.String()
}

// matchRuleAt finds the first rule (in bucket order) that matches word at
// pos. When afterSub is set — the immediately preceding position was
// produced by another rule firing — rules marked noDerive are skipped, so
// a "!"-prefixed rule never fires twice in a row at adjacent positions.
func (p *Phonet) matchRuleAt(word string, pos int, afterSub bool) *phonetRule {
	for _, rule := range p.byFirst[word[pos]] {
		if rule.anchorBegin && pos != 0 {
			continue
		}
		if afterSub && rule.noDerive {
			continue
		}
		if matched, _ := rule.matchAt(word, pos); matched {
			return rule
		}
	}
	return nil
}
