// Package abbrev expands the abbreviations used in P2000 payloads.
package abbrev

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Expansion is an abbreviation found in a text and its meaning.
type Expansion struct {
	Abbreviation string `json:"abbreviation"`
	Meaning      string `json:"meaning"`
}

// Table maps abbreviations to their meaning. The zero Table is empty and
// usable.
type Table struct {
	exact   map[string]string
	noSpace map[string]string
}

// Load reads an abbreviation file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening abbreviations: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// Read parses "ABBR: meaning" lines. Blank lines and lines without a
// colon, key or meaning are ignored. Later entries win.
func Read(r io.Reader) (*Table, error) {
	t := &Table{
		exact:   make(map[string]string),
		noSpace: make(map[string]string),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		t.exact[key] = value
		t.noSpace[strings.ReplaceAll(key, " ", "")] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Len returns the number of abbreviations.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.exact)
}

// Expand returns the meaning of token. The exact token is tried first,
// then the token with spaces removed.
func (t *Table) Expand(token string) (string, bool) {
	if t == nil {
		return "", false
	}
	if v, ok := t.exact[token]; ok {
		return v, true
	}
	normalized := strings.ReplaceAll(token, " ", "")
	if normalized == "" {
		return "", false
	}
	v, ok := t.noSpace[normalized]
	return v, ok
}

// Annotate returns the expansions of the words in text, in order of first
// appearance. Adjacent word pairs are tried before single words so spaced
// forms such as "P 1" resolve.
func (t *Table) Annotate(text string) []Expansion {
	if t.Len() == 0 {
		return nil
	}

	words := strings.Fields(text)
	for i, w := range words {
		words[i] = strings.Trim(w, ".,;:!?()")
	}

	var out []Expansion
	seen := make(map[string]bool)
	add := func(abbr string) bool {
		meaning, ok := t.Expand(abbr)
		if !ok {
			return false
		}
		if !seen[abbr] {
			seen[abbr] = true
			out = append(out, Expansion{Abbreviation: abbr, Meaning: meaning})
		}
		return true
	}

	for i := 0; i < len(words); i++ {
		if words[i] == "" {
			continue
		}
		if i+1 < len(words) && words[i+1] != "" && add(words[i]+" "+words[i+1]) {
			i++
			continue
		}
		add(words[i])
	}
	return out
}
