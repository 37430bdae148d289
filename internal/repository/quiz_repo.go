package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studymate-backend/internal/models"
)

type QuizRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRepo(pool *pgxpool.Pool) *QuizRepo {
	return &QuizRepo{pool: pool}
}

// Quiz operations

func (r *QuizRepo) Create(ctx context.Context, q *models.Quiz) error {
	q.ID = uuid.New()
	q.IsActive = true
	if q.DifficultyLevel == "" {
		q.DifficultyLevel = "intermediate"
	}

	query := `INSERT INTO quizzes (id, user_id, title, description, difficulty_level, time_limit_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		q.ID, q.UserID, q.Title, q.Description, q.DifficultyLevel, q.TimeLimitMinutes, q.IsActive,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

func (r *QuizRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	q := &models.Quiz{}
	query := `SELECT qz.id, qz.user_id, qz.title, qz.description, qz.difficulty_level,
		qz.time_limit_minutes, qz.is_active,
		(SELECT COUNT(*) FROM questions qn WHERE qn.quiz_id = qz.id), qz.created_at, qz.updated_at
		FROM quizzes qz WHERE qz.id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.UserID, &q.Title, &q.Description, &q.DifficultyLevel,
		&q.TimeLimitMinutes, &q.IsActive, &q.QuestionCount, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuizRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Quiz, error) {
	query := `SELECT qz.id, qz.user_id, qz.title, qz.description, qz.difficulty_level,
		qz.time_limit_minutes, qz.is_active,
		(SELECT COUNT(*) FROM questions qn WHERE qn.quiz_id = qz.id), qz.created_at, qz.updated_at
		FROM quizzes qz WHERE qz.user_id = $1 AND qz.is_active = TRUE ORDER BY qz.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		q := &models.Quiz{}
		err := rows.Scan(
			&q.ID, &q.UserID, &q.Title, &q.Description, &q.DifficultyLevel,
			&q.TimeLimitMinutes, &q.IsActive, &q.QuestionCount, &q.CreatedAt, &q.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *QuizRepo) Update(ctx context.Context, q *models.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET title = $1, description = $2, difficulty_level = $3,
		 time_limit_minutes = $4, is_active = $5, updated_at = NOW() WHERE id = $6`,
		q.Title, q.Description, q.DifficultyLevel, q.TimeLimitMinutes, q.IsActive, q.ID,
	)
	return err
}

func (r *QuizRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM quizzes WHERE id = $1", id)
	return err
}

// Question operations

func (r *QuizRepo) CreateQuestion(ctx context.Context, qn *models.Question) error {
	qn.ID = uuid.New()
	if qn.Points == 0 {
		qn.Points = 1
	}
	if qn.Difficulty == 0 {
		qn.Difficulty = 2
	}

	query := `INSERT INTO questions (id, quiz_id, text, question_type, explanation, difficulty, points, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		qn.ID, qn.QuizID, qn.Text, qn.QuestionType, qn.Explanation, qn.Difficulty, qn.Points, qn.OrderIndex,
	).Scan(&qn.CreatedAt)
	if err != nil {
		return err
	}

	for i := range qn.Options {
		qn.Options[i].ID = uuid.New()
		qn.Options[i].QuestionID = qn.ID
		_, err := r.pool.Exec(ctx,
			`INSERT INTO answer_options (id, question_id, text, is_correct, order_index)
			 VALUES ($1, $2, $3, $4, $5)`,
			qn.Options[i].ID, qn.ID, qn.Options[i].Text, qn.Options[i].IsCorrect, qn.Options[i].OrderIndex,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *QuizRepo) GetQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	qn := &models.Question{}
	query := `SELECT id, quiz_id, text, question_type, explanation, difficulty, points, order_index, created_at
		FROM questions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&qn.ID, &qn.QuizID, &qn.Text, &qn.QuestionType, &qn.Explanation,
		&qn.Difficulty, &qn.Points, &qn.OrderIndex, &qn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	options, err := r.listOptions(ctx, qn.ID)
	if err != nil {
		return nil, err
	}
	qn.Options = options
	return qn, nil
}

func (r *QuizRepo) ListQuestionsByQuiz(ctx context.Context, quizID uuid.UUID) ([]*models.Question, error) {
	query := `SELECT id, quiz_id, text, question_type, explanation, difficulty, points, order_index, created_at
		FROM questions WHERE quiz_id = $1 ORDER BY order_index, created_at`

	rows, err := r.pool.Query(ctx, query, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		qn := &models.Question{}
		err := rows.Scan(
			&qn.ID, &qn.QuizID, &qn.Text, &qn.QuestionType, &qn.Explanation,
			&qn.Difficulty, &qn.Points, &qn.OrderIndex, &qn.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		questions = append(questions, qn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, qn := range questions {
		options, err := r.listOptions(ctx, qn.ID)
		if err != nil {
			return nil, err
		}
		qn.Options = options
	}
	return questions, nil
}

func (r *QuizRepo) listOptions(ctx context.Context, questionID uuid.UUID) ([]models.AnswerOption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, text, is_correct, order_index
		 FROM answer_options WHERE question_id = $1 ORDER BY order_index`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []models.AnswerOption
	for rows.Next() {
		var o models.AnswerOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.IsCorrect, &o.OrderIndex); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *QuizRepo) UpdateQuestion(ctx context.Context, qn *models.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET text = $1, explanation = $2, difficulty = $3, points = $4, order_index = $5
		 WHERE id = $6`,
		qn.Text, qn.Explanation, qn.Difficulty, qn.Points, qn.OrderIndex, qn.ID,
	)
	return err
}

func (r *QuizRepo) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM questions WHERE id = $1", id)
	return err
}

// SumQuestionPoints returns the current total point value of a quiz. Attempts
// snapshot this at start; later edits do not touch existing attempts.
func (r *QuizRepo) SumQuestionPoints(ctx context.Context, quizID uuid.UUID) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(points), 0) FROM questions WHERE quiz_id = $1", quizID,
	).Scan(&total)
	return total, err
}

// Attempt operations

func (r *QuizRepo) CreateAttempt(ctx context.Context, a *models.QuizAttempt) error {
	a.ID = uuid.New()
	a.Status = models.StatusStarted

	query := `INSERT INTO quiz_attempts (id, user_id, quiz_id, status, total_points)
		VALUES ($1, $2, $3, $4, $5) RETURNING started_at`

	return r.pool.QueryRow(ctx, query,
		a.ID, a.UserID, a.QuizID, a.Status, a.TotalPoints,
	).Scan(&a.StartedAt)
}

func (r *QuizRepo) GetAttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error) {
	a := &models.QuizAttempt{}
	query := `SELECT id, user_id, quiz_id, status, score, total_points, time_taken_minutes, started_at, completed_at
		FROM quiz_attempts WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.QuizID, &a.Status, &a.Score, &a.TotalPoints,
		&a.TimeTakenMinutes, &a.StartedAt, &a.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpsertAnswer writes the answer ledger keyed by (attempt, question): a second
// submission for the same question replaces the first row's values.
func (r *QuizRepo) UpsertAnswer(ctx context.Context, ans *models.UserAnswer) error {
	if ans.ID == uuid.Nil {
		ans.ID = uuid.New()
	}

	query := `INSERT INTO user_answers (id, attempt_id, question_id, selected_option_id, text_answer, is_correct, time_spent_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (attempt_id, question_id) DO UPDATE
		SET selected_option_id = EXCLUDED.selected_option_id,
			text_answer = EXCLUDED.text_answer,
			is_correct = EXCLUDED.is_correct,
			time_spent_seconds = EXCLUDED.time_spent_seconds,
			answered_at = NOW()
		RETURNING id, answered_at`

	return r.pool.QueryRow(ctx, query,
		ans.ID, ans.AttemptID, ans.QuestionID, ans.SelectedOptionID,
		ans.TextAnswer, ans.IsCorrect, ans.TimeSpentSeconds,
	).Scan(&ans.ID, &ans.AnsweredAt)
}

// SumCorrectPoints recomputes an attempt's score from the full ledger, one
// aggregate scan per completion.
func (r *QuizRepo) SumCorrectPoints(ctx context.Context, attemptID uuid.UUID) (int, error) {
	var score int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(qn.points), 0)
		FROM user_answers ua
		JOIN questions qn ON qn.id = ua.question_id
		WHERE ua.attempt_id = $1 AND ua.is_correct
	`, attemptID).Scan(&score)
	return score, err
}

func (r *QuizRepo) CompleteAttempt(ctx context.Context, attemptID uuid.UUID, score, timeTakenMinutes int, completedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quiz_attempts SET status = $1, score = $2, time_taken_minutes = $3, completed_at = $4
		 WHERE id = $5`,
		models.StatusCompleted, score, timeTakenMinutes, completedAt, attemptID,
	)
	return err
}

func (r *QuizRepo) ListAnswersByAttempt(ctx context.Context, attemptID uuid.UUID) ([]*models.UserAnswer, error) {
	query := `SELECT id, attempt_id, question_id, selected_option_id, text_answer, is_correct, time_spent_seconds, answered_at
		FROM user_answers WHERE attempt_id = $1 ORDER BY answered_at`

	rows, err := r.pool.Query(ctx, query, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []*models.UserAnswer
	for rows.Next() {
		ans := &models.UserAnswer{}
		err := rows.Scan(
			&ans.ID, &ans.AttemptID, &ans.QuestionID, &ans.SelectedOptionID,
			&ans.TextAnswer, &ans.IsCorrect, &ans.TimeSpentSeconds, &ans.AnsweredAt,
		)
		if err != nil {
			return nil, err
		}
		answers = append(answers, ans)
	}
	return answers, rows.Err()
}
