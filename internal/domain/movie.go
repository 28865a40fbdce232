package domain

import "slices"

// DefaultImageURL is the poster used when a movie is stored without one.
const DefaultImageURL = "/images/default.jpg"

// Movie is one catalog record.
// Field names follow the JSON contract the front-end was built against.
type Movie struct {
	Document
	Title       string   `json:"title"`
	Genre       []string `json:"genre"`
	Description string   `json:"description"`
	Director    string   `json:"director"`
	Year        int      `json:"year"`
	ImageURL    string   `json:"imageUrl"`
	Rating      float64  `json:"rating"`
}

// NewMovie returns a movie carrying the schema defaults and no identity.
func NewMovie() *Movie {
	return &Movie{
		Genre:    []string{},
		ImageURL: DefaultImageURL,
	}
}

// Clone returns a deep copy of m.
func (m *Movie) Clone() *Movie {
	c := *m
	c.Genre = slices.Clone(m.Genre)
	return &c
}

// MovieFilter narrows a catalog listing. The zero value matches everything.
type MovieFilter struct {
	// Genre is a case-insensitive pattern matched against each genre element.
	Genre string
}
