package domain

import "time"

// Document is a knowledge-base document. The search core reads documents
// owned by the storage layer and never mutates them.
type Document struct {
	ID        string
	Title     string
	Content   string
	FileType  string
	Tags      []string
	Summary   string
	CreatedAt time.Time
	Vector    []float32 // nil until the document has been embedded
	Provider  string    // provider that produced Vector; gates dimensionality compatibility
}

// HasEmbedding reports whether the document carries a stored vector.
func (d *Document) HasEmbedding() bool {
	return len(d.Vector) > 0
}
