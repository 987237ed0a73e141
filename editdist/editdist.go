// Package editdist computes weighted edit distances between words, used by
// the suggestion pipeline both to rank candidates and, with keyboard-aware
// weights, to bias ranking toward the typos a given keyboard layout makes
// likely.
//
// Two distance functions are provided: Distance is the textbook unweighted
// Damerau-Levenshtein distance (insert/delete/replace/transpose, each cost
// 1) used for quick candidate filtering; WeightedDistance takes a Weights
// matrix and is used for final candidate scoring.
package editdist

// Distance returns the Damerau-Levenshtein distance between a and b: the
// minimum number of single-character insertions, deletions, substitutions,
// and adjacent transpositions needed to turn a into b.
func Distance(a, b string) int {
	return int(WeightedDistance(a, b, unitWeights(), identityNormalize))
}

func identityNormalize(b byte) uint8 { return b }

// unitWeights is the cost-1 table: every edit costs exactly one, so
// WeightedDistance reduces to classical Damerau-Levenshtein.
func unitWeights() *Weights {
	return &Weights{Missing: 1, Swap: 1, ReplDis1: 1, ReplDis2: 1, ExtraDis1: 1, ExtraDis2: 1, Min: 1, Max: 1}
}

// LimitedDistance is like Distance but returns -1 when the distance
// exceeds limit. It computes the full matrix before comparing against
// limit; it does not stop the computation early.
func LimitedDistance(a, b string, limit int) int {
	d := Distance(a, b)
	if d > limit {
		return -1
	}
	return d
}

// Weights holds the per-character-pair substitution and deletion costs used
// by WeightedDistance. Costs are indexed by a language's normalized
// character code (see langdata.CharMap.Normalized), not by raw byte value,
// so that accented variants of the same letter share a cost row.
type Weights struct {
	Missing    int // cost of inserting a character present in target but not word
	Swap       int // cost of swapping two adjacent letters
	ReplDis1   int // replacement cost between keyboard-adjacent characters
	ReplDis2   int // replacement cost between unrelated characters
	ExtraDis1  int // deletion cost for a character keyboard-adjacent to its neighbor
	ExtraDis2  int // deletion cost for an unrelated character

	// Min and Max bound a single edit's cost under this table (Min the
	// cheapest possible edit, Max the costliest). WeightedDistance does
	// not read them.
	Min int
	Max int

	Repl  [][]int // square matrix, size == number of normalized classes
	Extra [][]int // square matrix, size == number of normalized classes
}

// DefaultWeights returns the plain, keyboard-unaware cost table used for
// scoring clean-form and soundslike edit distance: substitution and
// deletion costs don't distinguish keyboard adjacency (every pair gets the
// same cost), but insertion, deletion, and swap still carry their own
// relative weights, scaled by 100 so integer arithmetic stays exact.
func DefaultWeights() *Weights {
	return &Weights{
		Missing:   95,
		Swap:      90,
		ReplDis1:  100,
		ReplDis2:  100,
		ExtraDis1: 95,
		ExtraDis2: 95,
		Min:       90,
		Max:       100,
	}
}

// NewWeights allocates a keyboard-aware weight table for a language with n
// normalized character classes. Every entry starts at the "unrelated"
// (Dis2) cost; ApplyAdjacency lowers entries for character pairs that are
// physically adjacent on a keyboard.
func NewWeights(n int) *Weights {
	w := &Weights{
		Missing:   85,
		Swap:      60,
		ReplDis1:  70,
		ReplDis2:  110,
		ExtraDis1: 70,
		ExtraDis2: 100,
	}
	w.Repl = make([][]int, n)
	w.Extra = make([][]int, n)
	for i := 0; i < n; i++ {
		w.Repl[i] = make([]int, n)
		w.Extra[i] = make([]int, n)
		for j := 0; j < n; j++ {
			w.Repl[i][j] = w.ReplDis2
			w.Extra[i][j] = w.ExtraDis2
		}
	}
	for i := 0; i < n; i++ {
		w.Repl[i][i] = 0
		w.Extra[i][i] = w.ExtraDis1
	}
	return w
}

// ApplyAdjacency marks two normalized classes as keyboard-adjacent,
// lowering their mutual replacement and deletion costs to the Dis1 tier in
// both directions.
func (w *Weights) ApplyAdjacency(a, b uint8) {
	w.Repl[a][b] = w.ReplDis1
	w.Repl[b][a] = w.ReplDis1
	w.Extra[a][b] = w.ExtraDis1
	w.Extra[b][a] = w.ExtraDis1
}

func (w *Weights) repl(a, b uint8) int {
	if w.Repl == nil {
		return w.ReplDis2
	}
	return w.Repl[a][b]
}

func (w *Weights) extra(a, b uint8) int {
	if w.Extra == nil {
		return w.ExtraDis2
	}
	return w.Extra[a][b]
}

// WeightedDistance computes the edit distance from word to target under w,
// normalizing each byte through normalize before any weight lookup (but
// comparing raw bytes for exact-match detection, so that the letters
// themselves, not just their normalized class, must agree for a free
// match). The algorithm is the standard dynamic-programming table with an
// added adjacent-transposition (swap) case, run in space and time
// proportional to len(word)*len(target).
func WeightedDistance(word, target string, w *Weights, normalize func(byte) uint8) int {
	wn, tn := len(word), len(target)
	rows, cols := wn+1, tn+1

	e := make([][]int, rows)
	for i := range e {
		e[i] = make([]int, cols)
	}
	e[0][0] = 0
	for j := 1; j < cols; j++ {
		e[0][j] = e[0][j-1] + w.Missing
	}

	for i := 1; i < rows; i++ {
		e[i][0] = e[i-1][0] + w.ExtraDis2
		wc := word[i-1]
		wn8 := normalize(wc)
		for j := 1; j < cols; j++ {
			tc := target[j-1]

			if wc == tc {
				e[i][j] = e[i-1][j-1]
				continue
			}

			tn8 := normalize(tc)
			best := e[i-1][j-1] + w.repl(wn8, tn8)

			if i != 1 {
				if v := e[i-1][j] + w.extra(normalize(word[i-2]), tn8); v < best {
					best = v
				}
				if v := e[i-2][j-1] + w.extra(normalize(word[i-2]), tn8) + w.repl(wn8, tn8); v < best {
					best = v
				}
			} else {
				if v := e[i-1][j] + w.ExtraDis2; v < best {
					best = v
				}
			}

			if v := e[i][j-1] + w.Missing; v < best {
				best = v
			}

			if i != 1 && j != 1 && word[i-1] == target[j-2] && word[i-2] == target[j-1] {
				if v := e[i-2][j-2] + w.Swap; v < best {
					best = v
				}
			}

			e[i][j] = best
		}
	}

	return e[rows-1][cols-1]
}
