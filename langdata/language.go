package langdata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/speldict/aspellgo/errs"
)

// Language is a loaded language descriptor plus its character map.
// Languages can be interned by name in a [Cache] (Load itself does not
// intern) and are immutable once Load returns, so they may be shared freely across
// Spellers and dictionaries.
type Language struct {
	Name           string
	Charset        string
	DataEncoding   string
	SoundslikeName string
	AffixName      string
	AffixCompress  bool
	StoreAsLower   bool // inverse of CharMap.storeAsStripped
	Try            string
	ReplTable      string

	Map *CharMap
}

// Descriptor holds the raw key/value pairs parsed from a <lang>.dat file,
// before being resolved into a Language (which additionally requires the
// matching .cset charset file).
type Descriptor struct {
	Name           string
	Charset        string
	DataEncoding   string
	Soundslike     string
	Affix          string
	AffixCompress  bool
	StoreAs        string
	Try            string
	ReplTable      string
	Specials       []SpecialEntry
}

// SpecialEntry is one "special <char> <begin><middle><end>" line from a
// language descriptor, where each flag is '*' (allowed) or '-' (not).
type SpecialEntry struct {
	Char               byte
	Begin, Middle, End bool
}

// ParseDescriptor parses a <lang>.dat file body.
func ParseDescriptor(r io.Reader) (Descriptor, error) {
	d := Descriptor{
		Charset:      "iso-8859-1",
		Soundslike:   "none",
		Affix:        "none",
		StoreAs:      "stripped",
		DataEncoding: "",
	}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.SplitN(text, " ", 2)
		key := fields[0]
		val := ""
		if len(fields) > 1 {
			val = strings.TrimSpace(fields[1])
		}
		switch key {
		case "name":
			d.Name = val
		case "charset":
			d.Charset = val
		case "data-encoding":
			d.DataEncoding = val
		case "soundslike":
			d.Soundslike = val
		case "affix":
			d.Affix = val
		case "affix-compress":
			d.AffixCompress = val == "true"
		case "store-as":
			d.StoreAs = val
		case "try":
			d.Try = val
		case "repl-table":
			d.ReplTable = val
		case "special":
			entry, err := parseSpecial(val)
			if err != nil {
				return d, errs.Wrap(errs.BadFileFormat, err, "malformed special line").At("<descriptor>", line)
			}
			d.Specials = append(d.Specials, entry)
		default:
			return d, errs.New(errs.BadFileFormat, "unknown language descriptor key %q", key).At("<descriptor>", line)
		}
	}
	if err := sc.Err(); err != nil {
		return d, errs.Wrap(errs.IO, err, "reading language descriptor")
	}
	if d.Name == "" {
		return d, errs.New(errs.BadFileFormat, "language descriptor missing name")
	}
	if d.DataEncoding == "" {
		d.DataEncoding = d.Charset
	}
	return d, nil
}

// parseSpecial parses "<char> <begin><middle><end>" where each flag is
// '*' or '-'.
func parseSpecial(val string) (SpecialEntry, error) {
	fields := strings.Fields(val)
	if len(fields) != 2 || len(fields[0]) != 1 || len(fields[1]) != 3 {
		return SpecialEntry{}, fmt.Errorf("expected '<char> <flag><flag><flag>', got %q", val)
	}
	flag := func(c byte) (bool, error) {
		switch c {
		case '*':
			return true, nil
		case '-':
			return false, nil
		default:
			return false, fmt.Errorf("special flag must be '*' or '-', got %q", c)
		}
	}
	b, err := flag(fields[1][0])
	if err != nil {
		return SpecialEntry{}, err
	}
	m, err := flag(fields[1][1])
	if err != nil {
		return SpecialEntry{}, err
	}
	e, err := flag(fields[1][2])
	if err != nil {
		return SpecialEntry{}, err
	}
	return SpecialEntry{Char: fields[0][0], Begin: b, Middle: m, End: e}, nil
}

// CsetRow is one parsed line of a <charset>.cset file.
type CsetRow struct {
	Byte       byte
	Unicode    rune
	Class      byte // 'l' letter, 's' space, 'o' other
	Upper      byte
	Lower      byte
	Title      byte
	Plain      byte
	SoundFirst byte
	SoundRest  byte
}

// ParseCset parses a charset file: a header terminated by a line starting
// with '/', followed by exactly 256 rows. The '/' line is required; every
// line before it is skipped as header.
func ParseCset(r io.Reader) ([256]CsetRow, error) {
	var rows [256]CsetRow
	sc := bufio.NewScanner(r)
	line := 0
	n := 0
	headerDone := false
	for sc.Scan() {
		line++
		text := sc.Text()
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		if !headerDone {
			if strings.HasPrefix(trimmed, "/") {
				headerDone = true
			}
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != 10 {
			return rows, errs.New(errs.BadFileFormat, "cset row must have 10 fields, got %d", len(fields)).At("<cset>", line)
		}
		row, err := parseCsetRow(fields)
		if err != nil {
			return rows, errs.Wrap(errs.BadFileFormat, err, "malformed cset row").At("<cset>", line)
		}
		if n >= 256 {
			return rows, errs.New(errs.BadFileFormat, "cset file has more than 256 rows").At("<cset>", line)
		}
		rows[n] = row
		n++
	}
	if err := sc.Err(); err != nil {
		return rows, errs.Wrap(errs.IO, err, "reading cset file")
	}
	if n != 256 {
		return rows, errs.New(errs.BadFileFormat, "cset file has %d rows, want 256", n)
	}
	return rows, nil
}

func parseCsetRow(fields []string) (CsetRow, error) {
	hexByte, err := strconv.ParseUint(fields[0], 16, 8)
	if err != nil {
		return CsetRow{}, fmt.Errorf("bad byte value %q: %w", fields[0], err)
	}
	codepoint, err := strconv.ParseUint(fields[1], 16, 32)
	if err != nil {
		return CsetRow{}, fmt.Errorf("bad codepoint %q: %w", fields[1], err)
	}
	classField := fields[2]
	if len(classField) != 1 {
		return CsetRow{}, fmt.Errorf("class field must be a single letter, got %q", classField)
	}
	byteField := func(s string) (byte, error) {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, fmt.Errorf("bad byte field %q: %w", s, err)
		}
		return byte(v), nil
	}
	upper, err := byteField(fields[4])
	if err != nil {
		return CsetRow{}, err
	}
	lower, err := byteField(fields[5])
	if err != nil {
		return CsetRow{}, err
	}
	title, err := byteField(fields[6])
	if err != nil {
		return CsetRow{}, err
	}
	plain, err := byteField(fields[7])
	if err != nil {
		return CsetRow{}, err
	}
	slFirst, err := byteField(fields[8])
	if err != nil {
		return CsetRow{}, err
	}
	slRest, err := byteField(fields[9])
	if err != nil {
		return CsetRow{}, err
	}
	return CsetRow{
		Byte:       byte(hexByte),
		Unicode:    rune(codepoint),
		Class:      classField[0],
		Upper:      upper,
		Lower:      lower,
		Title:      title,
		Plain:      plain,
		SoundFirst: slFirst,
		SoundRest:  slRest,
	}, nil
}

// BuildCharMap constructs a CharMap from 256 parsed cset rows and the
// descriptor's special/store-as configuration. The mid-chars set is always
// "-'"; the descriptor does not configure it.
func BuildCharMap(rows [256]CsetRow, d Descriptor) *CharMap {
	m := &CharMap{storeAsStripped: d.StoreAs == "stripped"}
	for i, row := range rows {
		b := byte(i)
		m.toLower[b] = row.Lower
		m.toUpper[b] = row.Upper
		m.toTitle[b] = row.Title
		m.toPlain[b] = row.Plain
		m.toUnicode[b] = row.Unicode
		m.slFirst[b] = row.SoundFirst
		m.slRest[b] = row.SoundRest
		switch row.Class {
		case 'l':
			m.class[b] = ClassLetter
		case 's':
			m.class[b] = ClassSpace
		default:
			m.class[b] = ClassOther
		}
	}
	for _, sp := range d.Specials {
		m.special[sp.Char] = specialFlags{begin: sp.Begin, middle: sp.Middle, end: sp.End}
	}

	// Derive the normalized table: every byte whose stripped form matches
	// shares one index; indices are numbered from 0 in the order each
	// stripped form is first seen scanning bytes 0..255.
	seen := make(map[byte]uint8, 256)
	var next uint8
	for i := 0; i < 256; i++ {
		b := byte(i)
		strip := m.toPlain[m.toLower[b]]
		idx, ok := seen[strip]
		if !ok {
			idx = next
			seen[strip] = idx
			next++
		}
		m.normalized[b] = idx
	}

	m.midChars = "-'"
	return m
}

// Load reads the language descriptor at datPath and its referenced
// charset file (resolved relative to csetDir) into a Language.
func Load(datPath, csetDir string) (*Language, error) {
	f, err := os.Open(datPath)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "opening language descriptor %s", datPath)
	}
	defer f.Close()

	d, err := ParseDescriptor(f)
	if err != nil {
		return nil, err
	}

	csetPath := csetDir + string(os.PathSeparator) + d.Charset + ".cset"
	cf, err := os.Open(csetPath)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "opening charset file %s", csetPath)
	}
	defer cf.Close()

	rows, err := ParseCset(cf)
	if err != nil {
		return nil, err
	}

	return &Language{
		Name:           d.Name,
		Charset:        d.Charset,
		DataEncoding:   d.DataEncoding,
		SoundslikeName: d.Soundslike,
		AffixName:      d.Affix,
		AffixCompress:  d.AffixCompress,
		StoreAsLower:   d.StoreAs == "lower",
		Try:            d.Try,
		ReplTable:      d.ReplTable,
		Map:            BuildCharMap(rows, d),
	}, nil
}

// Cache interns Languages by name, refcounted, so that multiple Spellers
// referencing the same language share one set of tables. Construct one
// with NewCache; the zero value has no map and no loader and is not usable.
// Tests that need isolation should construct their own Cache rather than
// using the process-wide one returned by InitDefault.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	loader  func(name string) (*Language, error)
}

type cacheEntry struct {
	lang     *Language
	refcount int
}

// NewCache returns a Cache that loads languages on miss using loader.
func NewCache(loader func(name string) (*Language, error)) *Cache {
	return &Cache{entries: make(map[string]*cacheEntry), loader: loader}
}

// Get returns the Language for name, loading it on first use and
// incrementing its refcount. Callers must call Release when done.
func (c *Cache) Get(name string) (*Language, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[name]; ok {
		e.refcount++
		return e.lang, nil
	}
	lang, err := c.loader(name)
	if err != nil {
		return nil, err
	}
	c.entries[name] = &cacheEntry{lang: lang, refcount: 1}
	return lang, nil
}

// Release decrements name's refcount, evicting it from the cache once it
// reaches zero.
func (c *Cache) Release(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[name]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(c.entries, name)
	}
}

// defaultCache is the process-wide language cache, created by the first
// call to InitDefault.
var defaultOnce sync.Once
var defaultCache *Cache

// InitDefault installs loader as the process-wide cache's loader and
// returns that cache. It is a
// programming error to call InitDefault more than once with different
// loaders; the first call wins and subsequent calls are no-ops, matching
// the "never silently reinitialize" rule for process-wide singletons.
func InitDefault(loader func(name string) (*Language, error)) *Cache {
	defaultOnce.Do(func() {
		defaultCache = NewCache(loader)
	})
	return defaultCache
}
