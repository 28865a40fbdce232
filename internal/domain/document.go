package domain

import "time"

// Document provides the identity and timestamps shared by every stored record.
// It gets embedded in the catalog types so the store layer can treat them alike.
type Document struct {
	ID        string    `json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new document.
func (d *Document) InitTimestamps() {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
}

// Touch updates the UpdatedAt timestamp to the current time.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now().UTC()
}

// GetID returns the document identifier.
func (d *Document) GetID() string {
	return d.ID
}
