package refdocs

import "time"

// Document is one stored reference document. The identifier is the stable
// name topics point at (e.g. "guia_pratica_educacional"); the extracted
// plain-text copy lives next to the original in the object store.
type Document struct {
	ID               string    `json:"id"`
	Identifier       string    `json:"identifier"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	FileName         string    `json:"fileName"`
	MimeType         string    `json:"mimeType"`
	SizeBytes        int64     `json:"sizeBytes"`
	StorageKey       string    `json:"-"`
	ExtractedTextKey string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}
