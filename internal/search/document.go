// Package search provides full-text search over the movie catalog using Bleve.
// The index is a secondary structure: the store stays the source of truth and
// search hits are resolved back to stored movies by id.
package search

import (
	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/genre"
)

// MovieDocument is the structure indexed for each movie.
type MovieDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Director    string   `json:"director"`
	Description string   `json:"description,omitempty"`
	GenreSlugs  []string `json:"genre_slugs,omitempty"`
	Year        int      `json:"year"`
	Rating      float64  `json:"rating"`
	CreatedAt   int64    `json:"created_at"` // Unix millis
}

// MovieToDocument converts a domain Movie to a MovieDocument.
func MovieToDocument(m *domain.Movie) *MovieDocument {
	return &MovieDocument{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Description: m.Description,
		GenreSlugs:  genre.Slugs(m.Genre),
		Year:        m.Year,
		Rating:      m.Rating,
		CreatedAt:   m.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
func (d *MovieDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"director":   d.Director,
		"year":       d.Year,
		"rating":     d.Rating,
		"created_at": d.CreatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.GenreSlugs) > 0 {
		m["genre_slugs"] = d.GenreSlugs
	}
	return m
}
