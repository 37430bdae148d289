package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studymate-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	user.IsActive = true

	query := `INSERT INTO users (id, email, password_hash, full_name, is_active)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.IsActive,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, full_name, bio, is_active, created_at, last_login_at
		FROM users WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Bio,
		&user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password_hash, full_name, bio, is_active, created_at, last_login_at
		FROM users WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Bio,
		&user.IsActive, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET full_name = $1, bio = $2 WHERE id = $3",
		user.FullName, user.Bio, user.ID,
	)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	return err
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

// GetStats aggregates a user's activity in a single round trip. The average
// quiz score and total study time only count completed records.
func (r *UserRepo) GetStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	stats := &models.UserStats{}

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents WHERE user_id = $1),
			(SELECT COUNT(*) FROM flashcard_sets WHERE user_id = $1),
			(SELECT COUNT(*) FROM quizzes WHERE user_id = $1),
			(SELECT COUNT(*) FROM study_sessions WHERE user_id = $1),
			(SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1),
			COALESCE((
				SELECT ROUND(AVG(CASE WHEN total_points > 0
					THEN 100.0 * score / total_points
					ELSE 0 END), 2)
				FROM quiz_attempts
				WHERE user_id = $1 AND status = 'completed'
			), 0),
			COALESCE((
				SELECT SUM(duration_minutes)
				FROM study_sessions
				WHERE user_id = $1 AND status = 'completed'
			), 0)
	`, userID).Scan(
		&stats.TotalDocuments,
		&stats.TotalFlashcardSets,
		&stats.TotalQuizzes,
		&stats.TotalStudySessions,
		&stats.TotalQuizAttempts,
		&stats.AvgQuizScore,
		&stats.TotalStudyTimeMinutes,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
