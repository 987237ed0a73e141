package dict

import (
	"bytes"
	"encoding/binary"
	"os"
	"sort"

	"github.com/speldict/aspellgo/errs"
	"github.com/speldict/aspellgo/langdata"
	"github.com/speldict/aspellgo/soundslike"
)

// SoundslikeGroup is one soundslike key and every word stored under it,
// as assembled by a dictionary builder (see package compiledict) before
// being laid out into a ReadOnlyDict's on-disk blocks.
type SoundslikeGroup struct {
	Soundslike string
	Words      []WordEntry
}

// BuildReadOnly lays groups out into the jump1/jump2/data/hash blocks
// described by the ReadOnlyDict on-disk format and returns the assembled,
// ready-to-query dictionary. groups need not be pre-sorted; BuildReadOnly
// sorts them by soundslike key.
func BuildReadOnly(lang *langdata.Language, sl soundslike.Transform, groups []SoundslikeGroup) *ReadOnlyDict {
	sort.Slice(groups, func(i, j int) bool { return groups[i].Soundslike < groups[j].Soundslike })

	d := &ReadOnlyDict{lang: lang, soundslike: sl, middleChars: lang.Map.MidChars()}

	var data bytes.Buffer
	var offsets []int                   // start offset of each group
	wordOffsets := make(map[string]int) // word -> offset of its nul-terminated entry, first writer wins

	for _, g := range groups {
		start := data.Len()
		offsets = append(offsets, start)

		var body bytes.Buffer
		body.WriteString(g.Soundslike)
		body.WriteByte(0)
		for _, w := range g.Words {
			entry := w.Word
			if w.Flags != "" {
				entry += "/" + w.Flags
			}
			wordOff := start + 4 + body.Len()
			body.WriteString(entry)
			body.WriteByte(0)
			if len(w.Word) > d.maxWordLen {
				d.maxWordLen = len(w.Word)
			}
			if _, seen := wordOffsets[w.Word]; !seen {
				wordOffsets[w.Word] = wordOff
			}
			d.wordCount++
		}

		var hdr [4]byte
		binary.LittleEndian.PutUint16(hdr[0:2], uint16(len(g.Soundslike)))
		binary.LittleEndian.PutUint16(hdr[2:4], uint16(4+body.Len()))
		data.Write(hdr[:])
		data.Write(body.Bytes())
	}
	d.data = data.Bytes()

	// jump2: one entry per distinct 3-char soundslike prefix, in sorted order.
	seenJ2 := make(map[string]bool)
	for i, g := range groups {
		key3 := padKey(g.Soundslike, 3)
		if seenJ2[key3] {
			continue
		}
		seenJ2[key3] = true
		var e jump2Entry
		copy(e.SL[:], key3)
		e.DataOffset = uint32(offsets[i])
		d.jump2 = append(d.jump2, e)
	}

	// jump1: one entry per distinct 2-char soundslike prefix, pointing at
	// the first jump2 index sharing that prefix.
	seenJ1 := make(map[string]bool)
	for i, e := range d.jump2 {
		key2 := string(e.SL[:2])
		if seenJ1[key2] {
			continue
		}
		seenJ1[key2] = true
		var j1 jump1Entry
		copy(j1.SL[:], key2)
		j1.Jump2Idx = uint32(i)
		d.jump1 = append(d.jump1, j1)
	}

	// hash table: open-addressed, sized to keep load factor under ~0.7.
	buckets := nextBucketCount(d.wordCount)
	d.hash = make([]uint32, buckets)
	for i := range d.hash {
		d.hash[i] = hashEmpty
	}
	for word, off := range wordOffsets {
		h := fnvHash(stripForHash(lang, word)) % uint32(buckets)
		for i := uint32(0); i < uint32(buckets); i++ {
			slot := (h + i) % uint32(buckets)
			if d.hash[slot] == hashEmpty {
				d.hash[slot] = uint32(off)
				break
			}
		}
	}

	return d
}

func nextBucketCount(n int) int {
	b := n*3/2 + 1
	if b < 8 {
		b = 8
	}
	return b
}

// Save writes d to path in the compiled dictionary format documented on
// the package, overwriting any existing file.
func (d *ReadOnlyDict) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IO, err, "creating compiled dictionary")
	}
	defer f.Close()

	jump1Bytes := make([]byte, len(d.jump1)*8)
	for i, e := range d.jump1 {
		copy(jump1Bytes[i*8:i*8+2], e.SL[:])
		binary.LittleEndian.PutUint32(jump1Bytes[i*8+4:i*8+8], e.Jump2Idx)
	}
	jump2Bytes := make([]byte, len(d.jump2)*8)
	for i, e := range d.jump2 {
		copy(jump2Bytes[i*8:i*8+3], e.SL[:])
		binary.LittleEndian.PutUint32(jump2Bytes[i*8+4:i*8+8], e.DataOffset)
	}
	hashBytes := make([]byte, len(d.hash)*4)
	for i, v := range d.hash {
		binary.LittleEndian.PutUint32(hashBytes[i*4:i*4+4], v)
	}

	jump1Off := uint32(0)
	jump2Off := jump1Off + uint32(len(jump1Bytes))
	wordOff := jump2Off + uint32(len(jump2Bytes))
	hashOff := wordOff + uint32(len(d.data))
	blockSize := hashOff + uint32(len(hashBytes))

	headStrings := uint32(len(d.lang.Name)+1) + uint32(len(d.soundslike.Name())+1) +
		uint32(len(itoa(d.soundslike.Version()))+1) + uint32(len(d.middleChars)+1)

	h := header{
		HeadSize:              headerFixedSize + headStrings,
		Jump1Offset:           jump1Off,
		Jump2Offset:           jump2Off,
		WordOffset:            wordOff,
		HashOffset:            hashOff,
		BlockSize:             blockSize,
		WordCount:             uint32(d.wordCount),
		WordBuckets:           uint32(len(d.hash)),
		SoundslikeCount:       uint32(len(d.jump2)),
		MaxWordLength:         uint32(d.maxWordLen),
		LangNameSize:          uint32(len(d.lang.Name) + 1),
		SoundslikeNameSize:    uint32(len(d.soundslike.Name()) + 1),
		SoundslikeVersionSize: uint32(len(itoa(d.soundslike.Version())) + 1),
		MiddleCharsSize:       uint32(len(d.middleChars) + 1),
	}
	copy(h.Magic[:], Magic)

	if err := binary.Write(f, binary.LittleEndian, &h); err != nil {
		return errs.Wrap(errs.IO, err, "writing dictionary header")
	}
	for _, s := range []string{d.lang.Name, d.soundslike.Name(), itoa(d.soundslike.Version()), d.middleChars} {
		if _, err := f.Write(append([]byte(s), 0)); err != nil {
			return errs.Wrap(errs.IO, err, "writing dictionary header strings")
		}
	}
	for _, chunk := range [][]byte{jump1Bytes, jump2Bytes, d.data, hashBytes} {
		if _, err := f.Write(chunk); err != nil {
			return errs.Wrap(errs.IO, err, "writing dictionary block")
		}
	}
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
