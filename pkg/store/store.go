// Package store implements the persistent shortcut library: an ordered
// mapping of category names to shortcut entries, backed by a JSON file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is a single shortcut: a generalized command template, what it does,
// and the concrete invocation it was derived from.
//
// The "usage example" key carries an embedded space on disk; that is the
// store's wire format and must not be changed.
type Entry struct {
	Command      string `json:"command"`
	Description  string `json:"description"`
	UsageExample string `json:"usage example"`
}

// Store holds categories in insertion order so that serializing an
// unmodified store reproduces the input document.
type Store struct {
	categories *orderedmap.OrderedMap[string, []Entry]
}

// New returns an empty store.
func New() *Store {
	return &Store{categories: orderedmap.New[string, []Entry]()}
}

// Parse decodes a store from its JSON document form.
func Parse(data []byte) (*Store, error) {
	s := New()
	if err := json.Unmarshal(data, s.categories); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	return s, nil
}

// Load reads and decodes the store file at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	return Parse(data)
}

// MarshalIndent serializes the store as a two-space indented JSON document,
// categories in insertion order.
func (s *Store) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(s.categories, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal store: %w", err)
	}
	return data, nil
}

// Categories returns all category names in insertion order.
func (s *Store) Categories() []string {
	names := make([]string, 0, s.categories.Len())
	for pair := s.categories.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// HasCategory reports whether the named category exists.
func (s *Store) HasCategory(name string) bool {
	_, ok := s.categories.Get(name)
	return ok
}

// Entries returns the entries of a category, or nil if it does not exist.
func (s *Store) Entries(category string) []Entry {
	entries, _ := s.categories.Get(category)
	return entries
}

// HasCommand reports whether the category already contains an entry whose
// command template matches exactly. The compare is case-sensitive and
// deliberately not fuzzy.
func (s *Store) HasCommand(category, command string) bool {
	for _, e := range s.Entries(category) {
		if e.Command == command {
			return true
		}
	}
	return false
}

// AddCategory creates an empty category if it does not already exist.
func (s *Store) AddCategory(name string) {
	if !s.HasCategory(name) {
		s.categories.Set(name, []Entry{})
	}
}

// Append adds an entry to the end of a category, creating the category if
// needed. Appending a duplicate command is an error.
func (s *Store) Append(category string, e Entry) error {
	if s.HasCommand(category, e.Command) {
		return fmt.Errorf("category %q already contains command %q", category, e.Command)
	}
	entries, _ := s.categories.Get(category)
	s.categories.Set(category, append(entries, e))
	return nil
}

// Len returns the number of categories.
func (s *Store) Len() int {
	return s.categories.Len()
}

// EntryCount returns the total number of entries across all categories.
func (s *Store) EntryCount() int {
	n := 0
	for pair := s.categories.Oldest(); pair != nil; pair = pair.Next() {
		n += len(pair.Value)
	}
	return n
}

// NormalizeCategory maps a raw category name onto the store convention:
// trimmed and upper-cased.
func NormalizeCategory(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
