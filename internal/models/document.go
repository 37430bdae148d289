package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	FilePath      string    `json:"file_path"`
	DocumentType  string    `json:"document_type"` // "pdf" | "txt" | "docx" | "md"
	OriginalText  *string   `json:"original_text"`
	ProcessedText *string   `json:"processed_text"`
	FileSize      *int64    `json:"file_size"`
	IsProcessed   bool      `json:"is_processed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Summary struct {
	ID          uuid.UUID `json:"id"`
	DocumentID  uuid.UUID `json:"document_id"`
	Content     string    `json:"content"`
	SummaryType string    `json:"summary_type"` // "brief" | "detailed" | "key_points"
	WordCount   *int      `json:"word_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type UpdateDocumentRequest struct {
	Title *string `json:"title"`
}

type GenerateSummaryRequest struct {
	SummaryType string `json:"summary_type"`
}
