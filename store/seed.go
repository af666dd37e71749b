package store

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSeed reports seed content the GraphQL Int type cannot carry.
var ErrInvalidSeed = errors.New("invalid seed")

// Seed is the initial content of a store.
type Seed struct {
	Authors []Author `yaml:"authors"`
	Books   []Book   `yaml:"books"`
}

// DefaultSeed returns the built-in catalogue: three authors, eight books.
func DefaultSeed() Seed {
	return Seed{
		Authors: []Author{
			{ID: 1, Name: "J. K. Rowling"},
			{ID: 2, Name: "J. R. R. Tolkien"},
			{ID: 3, Name: "Brent Weeks"},
		},
		Books: []Book{
			{ID: 1, Name: "Harry Potter and the Chamber of Secrets", AuthorID: 1},
			{ID: 2, Name: "Harry Potter and the Prisoner of Azkaban", AuthorID: 1},
			{ID: 3, Name: "Harry Potter and the Goblet of Fire", AuthorID: 1},
			{ID: 4, Name: "The Fellowship of the Ring", AuthorID: 2},
			{ID: 5, Name: "The Two Towers", AuthorID: 2},
			{ID: 6, Name: "The Return of the King", AuthorID: 2},
			{ID: 7, Name: "The Way of Shadows", AuthorID: 3},
			{ID: 8, Name: "Beyond the Shadows", AuthorID: 3},
		},
	}
}

// Validate checks that every id is a positive 32-bit integer and every
// author reference fits in 32 bits.
func (s Seed) Validate() error {
	var errs []error
	for i, a := range s.Authors {
		if !validID(a.ID) {
			errs = append(errs, fmt.Errorf("%w: authors[%d]: id %d out of range", ErrInvalidSeed, i, a.ID))
		}
	}
	for i, b := range s.Books {
		if !validID(b.ID) {
			errs = append(errs, fmt.Errorf("%w: books[%d]: id %d out of range", ErrInvalidSeed, i, b.ID))
		}
		if b.AuthorID < math.MinInt32 || b.AuthorID > math.MaxInt32 {
			errs = append(errs, fmt.Errorf("%w: books[%d]: authorId %d out of range", ErrInvalidSeed, i, b.AuthorID))
		}
	}

	return errors.Join(errs...)
}

func validID(id int) bool {
	return id >= 1 && id <= math.MaxInt32
}

func (s Seed) clone() Seed {
	return Seed{
		Authors: slices.Clone(s.Authors),
		Books:   slices.Clone(s.Books),
	}
}

// DecodeSeed reads and validates a YAML seed document.
func DecodeSeed(r io.Reader) (Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return Seed{}, nil
		}
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	return seed, nil
}

// LoadSeed reads a YAML seed file. An empty path yields DefaultSeed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("load seed: %w", err)
	}
	defer f.Close()

	seed, err := DecodeSeed(f)
	if err != nil {
		return Seed{}, fmt.Errorf("load seed %s: %w", path, err)
	}

	return seed, nil
}
