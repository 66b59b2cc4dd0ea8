package dictionary

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
)

const similarLimit = 10

type Entry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Dictionary is an immutable, upper-cased term index loaded once at startup.
type Dictionary struct {
	defs  map[string]string
	terms []string
}

// source mirrors the column-oriented export: {"term": {id: term},
// "definition": {id: definition}}.
type source struct {
	Term       map[string]string `json:"term"`
	Definition map[string]string `json:"definition"`
}

func Load(path string) (*Dictionary, error) {
	if path == "" {
		return New(nil), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) (*Dictionary, error) {
	var src source
	if err := json.NewDecoder(r).Decode(&src); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	entries := make([]Entry, 0, len(src.Term))
	for id, term := range src.Term {
		def, ok := src.Definition[id]
		if !ok {
			continue
		}
		entries = append(entries, Entry{Term: term, Definition: def})
	}
	return New(entries), nil
}

func New(entries []Entry) *Dictionary {
	d := &Dictionary{defs: make(map[string]string, len(entries))}
	for _, e := range entries {
		term := strings.ToUpper(strings.TrimSpace(e.Term))
		if term == "" {
			continue
		}
		if _, dup := d.defs[term]; !dup {
			d.terms = append(d.terms, term)
		}
		d.defs[term] = e.Definition
	}
	slices.Sort(d.terms)
	return d
}

func (d *Dictionary) Len() int { return len(d.terms) }

func (d *Dictionary) Define(q string) (string, error) {
	def, ok := d.defs[strings.ToUpper(strings.TrimSpace(q))]
	if !ok || def == "" {
		return "", apperr.ErrTermNotFound
	}
	return def, nil
}

// Similar returns up to ten terms containing q, in alphabetical order.
func (d *Dictionary) Similar(q string) []string {
	q = strings.ToUpper(strings.TrimSpace(q))
	out := make([]string, 0, similarLimit)
	for _, term := range d.terms {
		if strings.Contains(term, q) {
			out = append(out, term)
			if len(out) >= similarLimit {
				break
			}
		}
	}
	return out
}

func (d *Dictionary) Random() (Entry, error) {
	if len(d.terms) == 0 {
		return Entry{}, apperr.ErrTermNotFound
	}
	term := d.terms[rand.IntN(len(d.terms))]
	return Entry{Term: term, Definition: d.defs[term]}, nil
}
