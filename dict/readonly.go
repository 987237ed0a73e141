package dict

import (
	"bytes"
	"encoding/binary"
	"hash/fnv"
	"io"
	"os"
	"sort"

	"github.com/speldict/aspellgo/errs"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
)

// Magic identifies a compiled dictionary file, padded to 64 bytes on disk.
const Magic = "aspell default speller rowl 1.6"

const blockAlign = 16

// headerFixedSize is the encoded size of the header struct: 64 magic
// bytes plus fifteen uint32 fields.
const headerFixedSize = 64 + 15*4

// header is the fixed-size prefix of a compiled dictionary file. All
// fields after Magic are little-endian; variable-length name strings
// follow immediately after the header, then the jump1, jump2, data, and
// hash blocks, written back to back with no alignment padding.
type header struct {
	Magic                 [64]byte
	HeadSize              uint32
	Jump1Offset           uint32
	Jump2Offset           uint32
	WordOffset            uint32
	HashOffset            uint32
	BlockSize             uint32
	WordCount             uint32
	WordBuckets           uint32
	SoundslikeCount       uint32
	MaxWordLength         uint32
	LangNameSize          uint32
	SoundslikeNameSize    uint32
	SoundslikeVersionSize uint32
	MiddleCharsSize       uint32
	AffixInfo             uint32
}

// jump1Entry indexes the sorted soundslike block by its first two bytes.
type jump1Entry struct {
	SL       [2]byte
	_        [2]byte
	Jump2Idx uint32
}

// jump2Entry indexes the sorted soundslike block by its first three
// bytes, pointing at the byte offset (from the start of the data block)
// of the first soundslike group sharing that prefix.
type jump2Entry struct {
	SL         [3]byte
	_          [1]byte
	DataOffset uint32
}

const hashEmpty = ^uint32(0)

// ReadOnlyDict is an immutable, loaded-once compiled dictionary: a sorted
// soundslike block with a two-level jump index for prefix-bounded scans,
// plus a hash table for direct word lookup. Safe for concurrent reads once
// Load or Build returns.
type ReadOnlyDict struct {
	lang       *langdata.Language
	soundslike soundslike.Transform

	middleChars string
	wordCount   int
	maxWordLen  int

	jump1 []jump1Entry
	jump2 []jump2Entry
	data  []byte // soundslike blocks, laid out by BuildReadOnly
	hash  []uint32
}

func (d *ReadOnlyDict) Size() int                      { return d.wordCount }
func (d *ReadOnlyDict) Language() *langdata.Language    { return d.lang }
func (d *ReadOnlyDict) HaveSoundslike() bool            { return true }
func (d *ReadOnlyDict) FastLookup() bool                { return true }
func (d *ReadOnlyDict) FastScan() bool                  { return true }
// AffixCompressed reports true: stored entries keep their affix flags, and
// forms that BuildReadOnly did not expand are recognised only through the
// speller's affix check. The data block itself always uses the
// explicit-soundslike layout.
func (d *ReadOnlyDict) AffixCompressed() bool { return true }

// group is one decoded soundslike block: the soundslike key and every
// word stored under it.
type group struct {
	soundslike string
	words      []WordEntry
}

// decodeGroupAt parses the soundslike group starting at byte offset off
// in d.data, returning the group and the offset of the byte immediately
// past it.
func (d *ReadOnlyDict) decodeGroupAt(off int) (group, int) {
	slLen := int(binary.LittleEndian.Uint16(d.data[off:]))
	next := int(binary.LittleEndian.Uint16(d.data[off+2:]))
	p := off + 4
	sl := string(d.data[p : p+slLen])
	p += slLen + 1 // skip trailing nul

	var words []WordEntry
	for p < off+next {
		end := bytes.IndexByte(d.data[p:], 0)
		if end < 0 {
			break
		}
		entry := string(d.data[p : p+end])
		p += end + 1
		word, flags := splitWordFlags(entry)
		words = append(words, WordEntry{Word: word, Flags: flags})
	}
	return group{soundslike: sl, words: words}, off + next
}

func splitWordFlags(entry string) (word, flags string) {
	if i := bytes.IndexByte([]byte(entry), '/'); i >= 0 {
		return entry[:i], entry[i+1:]
	}
	return entry, ""
}

// CleanLookup performs a case/accent-insensitive lookup via the hash
// table, keyed on the word's stripped form.
func (d *ReadOnlyDict) CleanLookup(clean string) []WordEntry {
	return d.lookupHash(clean, func(a, b string) bool {
		return equalStripped(d.lang.Map, a, b)
	})
}

// Lookup performs a lookup under the given sensitive-compare policy.
func (d *ReadOnlyDict) Lookup(word string, cmp SensitiveCompare) []WordEntry {
	return d.lookupHash(word, cmp)
}

func (d *ReadOnlyDict) lookupHash(word string, cmp SensitiveCompare) []WordEntry {
	if len(d.hash) == 0 {
		return nil
	}
	h := fnvHash(stripForHash(d.lang, word)) % uint32(len(d.hash))
	var out []WordEntry
	for i := uint32(0); i < uint32(len(d.hash)); i++ {
		slot := d.hash[(h+i)%uint32(len(d.hash))]
		if slot == hashEmpty {
			break
		}
		end := bytes.IndexByte(d.data[slot:], 0)
		entry := string(d.data[slot : slot+uint32(end)])
		w, flags := splitWordFlags(entry)
		if cmp(word, w) {
			out = append(out, WordEntry{Word: w, Flags: flags})
		}
	}
	return out
}

// SoundslikeLookup returns every word stored under the exact soundslike
// key, found via a jump1/jump2-guided scan.
func (d *ReadOnlyDict) SoundslikeLookup(sl string) []WordEntry {
	off, ok := d.findGroupOffset(sl)
	if !ok {
		return nil
	}
	// groups are sorted, so scan forward from the bucket start until the
	// key is found or passed.
	for off < len(d.data) {
		g, next := d.decodeGroupAt(off)
		if g.soundslike == sl {
			return g.words
		}
		if g.soundslike > sl {
			return nil
		}
		off = next
	}
	return nil
}

func (d *ReadOnlyDict) findGroupOffset(sl string) (int, bool) {
	key2 := padKey(sl, 2)
	j1 := sort.Search(len(d.jump1), func(i int) bool {
		return string(d.jump1[i].SL[:]) >= key2
	})
	if j1 >= len(d.jump1) {
		return 0, false
	}
	j2start := int(d.jump1[j1].Jump2Idx)
	j2end := len(d.jump2)
	if j1+1 < len(d.jump1) {
		j2end = int(d.jump1[j1+1].Jump2Idx)
	}
	key3 := padKey(sl, 3)
	for i := j2start; i < j2end; i++ {
		if string(d.jump2[i].SL[:]) == key3 {
			return int(d.jump2[i].DataOffset), true
		}
	}
	if j2start < j2end {
		return int(d.jump2[j2start].DataOffset), true
	}
	return 0, false
}

func padKey(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + string(make([]byte, n-len(s)))
}

// readOnlySoundslikeIter walks the data block group by group, honoring
// SkipPast by jumping whole jump1/jump2 buckets.
type readOnlySoundslikeIter struct {
	d       *ReadOnlyDict
	off     int
	j1      int
	j2      int
}

func (d *ReadOnlyDict) SoundslikeIter() SoundslikeIterator {
	return &readOnlySoundslikeIter{d: d, off: 0}
}

func (it *readOnlySoundslikeIter) Next() (SoundslikeEntry, bool) {
	if it.off >= len(it.d.data) {
		return SoundslikeEntry{}, false
	}
	g, next := it.d.decodeGroupAt(it.off)
	it.advanceJumps()
	it.off = next
	return SoundslikeEntry{Soundslike: g.soundslike, Words: g.words}, true
}

// advanceJumps keeps j1/j2 pointed at the last jump1/jump2 bucket whose
// data offset is at or before it.off, so that a SkipPast immediately
// following a run of plain Next() calls starts from the bucket the scan
// has actually reached rather than from a stale base left over from the
// last SkipPast.
func (it *readOnlySoundslikeIter) advanceJumps() {
	for it.j1+1 < len(it.d.jump1) && it.bucketOffset(it.j1+1) <= it.off {
		it.j1++
	}
	for it.j2+1 < len(it.d.jump2) && int(it.d.jump2[it.j2+1].DataOffset) <= it.off {
		it.j2++
	}
}

func (it *readOnlySoundslikeIter) SkipPast(stoppedAt int) {
	switch {
	case stoppedAt < 2:
		it.j1++
		if it.j1 < len(it.d.jump1) {
			it.off = it.bucketOffset(it.j1)
		} else {
			it.off = len(it.d.data)
		}
	case stoppedAt < 3:
		it.j2++
		if it.j2 < len(it.d.jump2) {
			it.off = int(it.d.jump2[it.j2].DataOffset)
		} else {
			it.off = len(it.d.data)
		}
	default:
		// within-block advance: the next Next() call already does this.
	}
}

func (it *readOnlySoundslikeIter) bucketOffset(j1 int) int {
	j2start := int(it.d.jump1[j1].Jump2Idx)
	if j2start < len(it.d.jump2) {
		return int(it.d.jump2[j2start].DataOffset)
	}
	return len(it.d.data)
}

func fnvHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = io.WriteString(h, s)
	return h.Sum32()
}

func stripForHash(l *langdata.Language, word string) string {
	m := l.Map
	buf := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		buf[i] = m.ToStripped(word[i])
	}
	return string(buf)
}

func equalStripped(m *langdata.CharMap, a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if m.ToStripped(a[i]) != m.ToStripped(b[i]) {
			return false
		}
	}
	return true
}

// Load reads a compiled dictionary file, verifying its magic, language and
// soundslike name/version against lang and sl.
func Load(path string, lang *langdata.Language, sl soundslike.Transform) (*ReadOnlyDict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "opening compiled dictionary")
	}
	defer f.Close()

	var h header
	if err := binary.Read(f, binary.LittleEndian, &h); err != nil {
		return nil, errs.Wrap(errs.IO, err, "reading dictionary header").At(path, 0)
	}
	if string(bytes.TrimRight(h.Magic[:], "\x00")) != Magic {
		return nil, errs.New(errs.BadFileFormat, "not a compiled dictionary file").At(path, 0)
	}

	langName, err := readString(f, int(h.LangNameSize))
	if err != nil {
		return nil, err
	}
	if langName != lang.Name {
		return nil, errs.New(errs.LanguageMismatch, "dictionary is for %q, speller is for %q", langName, lang.Name).At(path, 0)
	}

	slName, err := readString(f, int(h.SoundslikeNameSize))
	if err != nil {
		return nil, err
	}
	slVersion, err := readString(f, int(h.SoundslikeVersionSize))
	if err != nil {
		return nil, err
	}
	if slName != sl.Name() || slVersion != itoa(sl.Version()) {
		return nil, errs.New(errs.MismatchedSoundslike, "dictionary soundslike %q version %s does not match speller's %q version %d", slName, slVersion, sl.Name(), sl.Version()).At(path, 0)
	}

	middleChars, err := readString(f, int(h.MiddleCharsSize))
	if err != nil {
		return nil, err
	}

	block := make([]byte, h.BlockSize)
	if _, err := io.ReadFull(f, block); err != nil {
		return nil, errs.Wrap(errs.IO, err, "reading dictionary block").At(path, 0)
	}

	d := &ReadOnlyDict{
		lang:        lang,
		soundslike:  sl,
		middleChars: middleChars,
		wordCount:   int(h.WordCount),
		maxWordLen:  int(h.MaxWordLength),
	}

	jump1Bytes := block[h.Jump1Offset:h.Jump2Offset]
	d.jump1 = make([]jump1Entry, len(jump1Bytes)/8)
	for i := range d.jump1 {
		copy(d.jump1[i].SL[:], jump1Bytes[i*8:i*8+2])
		d.jump1[i].Jump2Idx = binary.LittleEndian.Uint32(jump1Bytes[i*8+4 : i*8+8])
	}

	jump2Bytes := block[h.Jump2Offset:h.WordOffset]
	d.jump2 = make([]jump2Entry, len(jump2Bytes)/8)
	for i := range d.jump2 {
		copy(d.jump2[i].SL[:], jump2Bytes[i*8:i*8+3])
		d.jump2[i].DataOffset = binary.LittleEndian.Uint32(jump2Bytes[i*8+4 : i*8+8])
	}

	d.data = block[h.WordOffset:h.HashOffset]

	hashBytes := block[h.HashOffset:]
	d.hash = make([]uint32, h.WordBuckets)
	for i := range d.hash {
		d.hash[i] = binary.LittleEndian.Uint32(hashBytes[i*4 : i*4+4])
	}

	return d, nil
}

func readString(r io.Reader, n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errs.Wrap(errs.IO, err, "reading dictionary header string")
	}
	return string(bytes.TrimRight(buf, "\x00")), nil
}
