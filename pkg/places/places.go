// Package places resolves Dutch place names mentioned in P2000 payloads to
// their municipality, province and region.
package places

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinNameLength is the shortest place name that is matched. Shorter names
// collide with abbreviations and ordinary words.
const MinNameLength = 3

// Columns of the place table header. Only "place" is required.
const (
	ColumnPlace        = "place"
	ColumnMunicipality = "municipality"
	ColumnProvince     = "province"
	ColumnRegion       = "region"
	ColumnLatitude     = "latitude"
	ColumnLongitude    = "longitude"
)

// Place is one row of the place table.
type Place struct {
	Name         string   `json:"name"`
	Municipality string   `json:"municipality,omitempty"`
	Province     string   `json:"province,omitempty"`
	Region       string   `json:"region,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// String formats the place as "Name (Municipality) | Province | Region".
// The municipality is shown only when it differs from the name; empty
// parts are left out and coordinates are appended when known.
func (p Place) String() string {
	parts := []string{p.Name}
	if p.Municipality != "" && !strings.EqualFold(p.Municipality, p.Name) {
		parts[0] = fmt.Sprintf("%s (%s)", p.Name, p.Municipality)
	}
	for _, s := range []string{p.Province, p.Region} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if p.Latitude != nil && p.Longitude != nil {
		parts = append(parts, fmt.Sprintf("[%s, %s]",
			strconv.FormatFloat(*p.Latitude, 'f', -1, 64),
			strconv.FormatFloat(*p.Longitude, 'f', -1, 64)))
	}
	return strings.Join(parts, " | ")
}

// Table holds the known places. A nil Table is empty and usable.
type Table struct {
	// byLength is ordered longest name first so the most specific name wins.
	byLength []Place
	lower    []string
}

// Load reads a place table file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening places: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// Read parses a ';' separated table whose first row names the columns.
// Rows with a name shorter than MinNameLength are ignored and the first
// row for a name wins. Unparseable coordinates are dropped.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[ColumnPlace]; !ok {
		return nil, fmt.Errorf("header has no %q column", ColumnPlace)
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	t := &Table{}
	seen := make(map[string]bool)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		p := Place{
			Name:         field(rec, ColumnPlace),
			Municipality: field(rec, ColumnMunicipality),
			Province:     field(rec, ColumnProvince),
			Region:       field(rec, ColumnRegion),
		}
		key := strings.ToLower(p.Name)
		if utf8.RuneCountInString(p.Name) < MinNameLength || seen[key] {
			continue
		}
		seen[key] = true

		lat, latErr := strconv.ParseFloat(field(rec, ColumnLatitude), 64)
		lon, lonErr := strconv.ParseFloat(field(rec, ColumnLongitude), 64)
		if latErr == nil && lonErr == nil {
			p.Latitude, p.Longitude = &lat, &lon
		}
		t.byLength = append(t.byLength, p)
	}

	sort.SliceStable(t.byLength, func(i, j int) bool {
		return utf8.RuneCountInString(t.byLength[i].Name) > utf8.RuneCountInString(t.byLength[j].Name)
	})
	t.lower = make([]string, len(t.byLength))
	for i, p := range t.byLength {
		t.lower[i] = strings.ToLower(p.Name)
	}
	return t, nil
}

// Len returns the number of places.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byLength)
}

// Find returns the longest place whose name occurs in text as whole words,
// compared case-insensitively.
func (t *Table) Find(text string) (Place, bool) {
	if t.Len() == 0 || text == "" {
		return Place{}, false
	}
	haystack := strings.ToLower(text)
	for i, name := range t.lower {
		if containsWord(haystack, name) {
			return t.byLength[i], true
		}
	}
	return Place{}, false
}

// Resolve looks the place up in the extracted location first and falls
// back to the full payload.
func (t *Table) Resolve(location, payload string) (Place, bool) {
	if p, ok := t.Find(location); ok {
		return p, true
	}
	return t.Find(payload)
}

// containsWord reports whether word occurs in s without a letter or digit
// directly before or after it.
func containsWord(s, word string) bool {
	for from := 0; from <= len(s)-len(word); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)

		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
