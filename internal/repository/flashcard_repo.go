package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studymate-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

// Set operations

func (r *FlashcardRepo) CreateSet(ctx context.Context, s *models.FlashcardSet) error {
	s.ID = uuid.New()
	if s.DifficultyLevel == "" {
		s.DifficultyLevel = "intermediate"
	}
	if s.ColorTheme == "" {
		s.ColorTheme = "#8B5CF6"
	}

	query := `INSERT INTO flashcard_sets (id, user_id, title, description, difficulty_level, color_theme)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.Title, s.Description, s.DifficultyLevel, s.ColorTheme,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *FlashcardRepo) GetSetByID(ctx context.Context, id uuid.UUID) (*models.FlashcardSet, error) {
	s := &models.FlashcardSet{}
	query := `SELECT fs.id, fs.user_id, fs.title, fs.description, fs.difficulty_level, fs.color_theme,
		(SELECT COUNT(*) FROM flashcards f WHERE f.set_id = fs.id), fs.created_at, fs.updated_at
		FROM flashcard_sets fs WHERE fs.id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Title, &s.Description, &s.DifficultyLevel, &s.ColorTheme,
		&s.CardCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *FlashcardRepo) ListSetsByUser(ctx context.Context, userID uuid.UUID) ([]*models.FlashcardSet, error) {
	query := `SELECT fs.id, fs.user_id, fs.title, fs.description, fs.difficulty_level, fs.color_theme,
		(SELECT COUNT(*) FROM flashcards f WHERE f.set_id = fs.id), fs.created_at, fs.updated_at
		FROM flashcard_sets fs WHERE fs.user_id = $1 ORDER BY fs.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []*models.FlashcardSet
	for rows.Next() {
		s := &models.FlashcardSet{}
		err := rows.Scan(
			&s.ID, &s.UserID, &s.Title, &s.Description, &s.DifficultyLevel, &s.ColorTheme,
			&s.CardCount, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func (r *FlashcardRepo) UpdateSet(ctx context.Context, s *models.FlashcardSet) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE flashcard_sets SET title = $1, description = $2, difficulty_level = $3,
		 color_theme = $4, updated_at = NOW() WHERE id = $5`,
		s.Title, s.Description, s.DifficultyLevel, s.ColorTheme, s.ID,
	)
	return err
}

func (r *FlashcardRepo) DeleteSet(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM flashcard_sets WHERE id = $1", id)
	return err
}

// Card operations

func (r *FlashcardRepo) CreateCard(ctx context.Context, c *models.Flashcard) error {
	c.ID = uuid.New()
	if c.Difficulty == 0 {
		c.Difficulty = 2
	}

	query := `INSERT INTO flashcards (id, set_id, question, answer, hint, difficulty, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		c.ID, c.SetID, c.Question, c.Answer, c.Hint, c.Difficulty, c.OrderIndex,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *FlashcardRepo) GetCardByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	query := `SELECT id, set_id, question, answer, hint, difficulty, order_index, created_at, updated_at
		FROM flashcards WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.SetID, &c.Question, &c.Answer, &c.Hint, &c.Difficulty, &c.OrderIndex,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *FlashcardRepo) ListCardsBySet(ctx context.Context, setID uuid.UUID) ([]*models.Flashcard, error) {
	query := `SELECT id, set_id, question, answer, hint, difficulty, order_index, created_at, updated_at
		FROM flashcards WHERE set_id = $1 ORDER BY order_index, created_at`

	rows, err := r.pool.Query(ctx, query, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.Flashcard
	for rows.Next() {
		c := &models.Flashcard{}
		err := rows.Scan(
			&c.ID, &c.SetID, &c.Question, &c.Answer, &c.Hint, &c.Difficulty, &c.OrderIndex,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *FlashcardRepo) UpdateCard(ctx context.Context, c *models.Flashcard) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE flashcards SET question = $1, answer = $2, hint = $3, difficulty = $4,
		 order_index = $5, updated_at = NOW() WHERE id = $6`,
		c.Question, c.Answer, c.Hint, c.Difficulty, c.OrderIndex, c.ID,
	)
	return err
}

func (r *FlashcardRepo) DeleteCard(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM flashcards WHERE id = $1", id)
	return err
}
