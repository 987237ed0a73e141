package editdist

import (
	"bufio"
	"io"
	"strings"

	"github.com/speldict/aspellgo/errs"
)

// LoadKeyboardWeights builds a keyboard-aware Weights table for a language
// with numNormalized normalized character classes, lowering replacement and
// deletion costs for every pair of keys marked adjacent in r.
//
// The file format is one adjacent key pair per line, given as the two raw
// characters with no separator (e.g. "qw" marks q and w as neighbors); blank
// lines and lines starting with '#' are ignored.
func LoadKeyboardWeights(numNormalized int, r io.Reader, normalize func(byte) uint8) (*Weights, error) {
	w := NewWeights(numNormalized)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if len(text) != 2 {
			return nil, errs.New(errs.BadFileFormat, "keyboard adjacency line must name exactly two characters: %q", text).At("<keyboard>", line)
		}
		a := normalize(text[0])
		b := normalize(text[1])
		w.ApplyAdjacency(a, b)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.IO, err, "reading keyboard adjacency file")
	}
	return w, nil
}
