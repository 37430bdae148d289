package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studymate-backend/internal/models"
)

type StudySessionRepo struct {
	pool *pgxpool.Pool
}

func NewStudySessionRepo(pool *pgxpool.Pool) *StudySessionRepo {
	return &StudySessionRepo{pool: pool}
}

func (r *StudySessionRepo) Create(ctx context.Context, s *models.StudySession) error {
	s.ID = uuid.New()
	s.Status = models.StatusStarted

	query := `INSERT INTO study_sessions (id, user_id, set_id, status)
		VALUES ($1, $2, $3, $4) RETURNING started_at`

	return r.pool.QueryRow(ctx, query, s.ID, s.UserID, s.SetID, s.Status).Scan(&s.StartedAt)
}

func (r *StudySessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s := &models.StudySession{}
	query := `SELECT id, user_id, set_id, status, total_cards_studied, correct_answers,
		duration_minutes, started_at, completed_at
		FROM study_sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.SetID, &s.Status, &s.TotalCardsStudied, &s.CorrectAnswers,
		&s.DurationMinutes, &s.StartedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateReview appends to the review ledger; there is deliberately no conflict
// key, repeated reviews of the same card create separate rows.
func (r *StudySessionRepo) CreateReview(ctx context.Context, rev *models.CardReview) error {
	rev.ID = uuid.New()

	query := `INSERT INTO card_reviews (id, session_id, flashcard_id, is_correct, time_spent_seconds)
		VALUES ($1, $2, $3, $4, $5) RETURNING reviewed_at`

	return r.pool.QueryRow(ctx, query,
		rev.ID, rev.SessionID, rev.FlashcardID, rev.IsCorrect, rev.TimeSpentSeconds,
	).Scan(&rev.ReviewedAt)
}

// IncrementCounters maintains the live totals shown while a session is open.
// The completion path recounts from the ledger, so these are best-effort.
func (r *StudySessionRepo) IncrementCounters(ctx context.Context, sessionID uuid.UUID, correct bool) error {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE study_sessions SET total_cards_studied = total_cards_studied + 1,
		 correct_answers = correct_answers + $1 WHERE id = $2`,
		correctDelta, sessionID,
	)
	return err
}

func (r *StudySessionRepo) CountReviews(ctx context.Context, sessionID uuid.UUID) (studied int, correct int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM card_reviews WHERE session_id = $1
	`, sessionID).Scan(&studied, &correct)
	return
}

func (r *StudySessionRepo) Complete(ctx context.Context, sessionID uuid.UUID, studied, correct, durationMinutes int, completedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE study_sessions SET status = $1, total_cards_studied = $2, correct_answers = $3,
		 duration_minutes = $4, completed_at = $5 WHERE id = $6`,
		models.StatusCompleted, studied, correct, durationMinutes, completedAt, sessionID,
	)
	return err
}

func (r *StudySessionRepo) ListReviews(ctx context.Context, sessionID uuid.UUID) ([]*models.CardReview, error) {
	query := `SELECT id, session_id, flashcard_id, is_correct, time_spent_seconds, reviewed_at
		FROM card_reviews WHERE session_id = $1 ORDER BY reviewed_at`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.CardReview
	for rows.Next() {
		rev := &models.CardReview{}
		err := rows.Scan(&rev.ID, &rev.SessionID, &rev.FlashcardID, &rev.IsCorrect,
			&rev.TimeSpentSeconds, &rev.ReviewedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
