package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studymate-backend/internal/models"
)

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) Create(ctx context.Context, d *models.Document) error {
	d.ID = uuid.New()

	query := `INSERT INTO documents (id, user_id, title, file_path, document_type, original_text, file_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		d.ID, d.UserID, d.Title, d.FilePath, d.DocumentType, d.OriginalText, d.FileSize,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *DocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	d := &models.Document{}
	query := `SELECT id, user_id, title, file_path, document_type, original_text, processed_text,
		file_size, is_processed, created_at, updated_at
		FROM documents WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.UserID, &d.Title, &d.FilePath, &d.DocumentType, &d.OriginalText,
		&d.ProcessedText, &d.FileSize, &d.IsProcessed, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DocumentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Document, error) {
	query := `SELECT id, user_id, title, file_path, document_type, original_text, processed_text,
		file_size, is_processed, created_at, updated_at
		FROM documents WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		d := &models.Document{}
		err := rows.Scan(
			&d.ID, &d.UserID, &d.Title, &d.FilePath, &d.DocumentType, &d.OriginalText,
			&d.ProcessedText, &d.FileSize, &d.IsProcessed, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE documents SET title = $1, updated_at = NOW() WHERE id = $2", title, id)
	return err
}

func (r *DocumentRepo) SetProcessedText(ctx context.Context, id uuid.UUID, text string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE documents SET processed_text = $1, is_processed = TRUE, updated_at = NOW() WHERE id = $2",
		text, id)
	return err
}

func (r *DocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	return err
}

// Summaries

func (r *DocumentRepo) CreateSummary(ctx context.Context, s *models.Summary) error {
	s.ID = uuid.New()

	query := `INSERT INTO summaries (id, document_id, content, summary_type, word_count)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.DocumentID, s.Content, s.SummaryType, s.WordCount,
	).Scan(&s.CreatedAt)
}

func (r *DocumentRepo) GetSummaryByID(ctx context.Context, id uuid.UUID) (*models.Summary, error) {
	s := &models.Summary{}
	query := `SELECT id, document_id, content, summary_type, word_count, created_at
		FROM summaries WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.DocumentID, &s.Content, &s.SummaryType, &s.WordCount, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *DocumentRepo) ListSummariesByDocument(ctx context.Context, documentID uuid.UUID) ([]*models.Summary, error) {
	query := `SELECT id, document_id, content, summary_type, word_count, created_at
		FROM summaries WHERE document_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.Summary
	for rows.Next() {
		s := &models.Summary{}
		err := rows.Scan(&s.ID, &s.DocumentID, &s.Content, &s.SummaryType, &s.WordCount, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *DocumentRepo) UpdateSummaryContent(ctx context.Context, id uuid.UUID, content string, wordCount int) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE summaries SET content = $1, word_count = $2 WHERE id = $3",
		content, wordCount, id)
	return err
}
