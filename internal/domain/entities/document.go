package entities

import "time"

// DocumentStatus represents the upload lifecycle of an RFP document.
type DocumentStatus string

const (
	// DocumentStatusPendingUpload means an upload intent exists but the
	// file has not been stored or extracted yet.
	DocumentStatusPendingUpload DocumentStatus = "pending_upload"

	// DocumentStatusUploaded means the file is stored and its text
	// content has been extracted.
	DocumentStatusUploaded DocumentStatus = "uploaded"
)

// Document represents an uploaded RFP document and its extracted text.
// Documents are never deleted by the pipeline.
type Document struct {
	ID          string         `json:"document_id" db:"id"`
	Status      DocumentStatus `json:"status" db:"status"`
	Content     string         `json:"content,omitempty" db:"content"`
	ClientName  string         `json:"client_name" db:"client_name"`
	Region      string         `json:"region" db:"region"`
	Industry    string         `json:"industry" db:"industry"`
	FileName    string         `json:"file_name" db:"file_name"`
	FileSize    int64          `json:"file_size" db:"file_size"`
	ContentType string         `json:"content_type" db:"content_type"`
	StorageKey  string         `json:"storage_key" db:"storage_key"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// HasContent reports whether extraction has populated the document text.
func (d *Document) HasContent() bool {
	return d != nil && d.Content != ""
}
