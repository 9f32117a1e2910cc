// Package documents stores uploaded court decisions. The original file is
// kept in blob storage and its metadata in the documents table; text
// uploads can seed an analysis session directly.
package documents

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded decision.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasText reports whether the stored blob is the decision text itself.
func (d *Document) HasText() bool {
	return IsText(d.ContentType)
}

// CreateCommand carries the data needed to upload and register a new document.
// PageCount is set for PDF uploads; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}

// TextCommand registers a decision pasted as plain text.
type TextCommand struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// IsText reports whether contentType is a plain text media type.
func IsText(contentType string) bool {
	return strings.HasPrefix(contentType, "text/plain")
}

func accepted(contentType string) bool {
	return contentType == "application/pdf" || IsText(contentType)
}
