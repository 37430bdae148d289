package models

import (
	"time"

	"github.com/google/uuid"
)

// Attempt and session lifecycle states. There is no abandoned/expired state; an
// attempt left in "started" stays queryable as incomplete.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
)

// Question types. Fill-in-the-blank answers are recorded but never auto-graded.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeFillBlank      = "fill_blank"
)

type Quiz struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	DifficultyLevel  string    `json:"difficulty_level"`
	TimeLimitMinutes *int      `json:"time_limit_minutes"`
	IsActive         bool      `json:"is_active"`
	QuestionCount    int       `json:"question_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Question struct {
	ID           uuid.UUID      `json:"id"`
	QuizID       uuid.UUID      `json:"quiz_id"`
	Text         string         `json:"text"`
	QuestionType string         `json:"question_type"`
	Explanation  string         `json:"explanation"`
	Difficulty   int            `json:"difficulty"` // 1=easy, 2=medium, 3=hard
	Points       int            `json:"points"`
	OrderIndex   int            `json:"order_index"`
	Options      []AnswerOption `json:"options,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type AnswerOption struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"text"`
	IsCorrect  bool      `json:"is_correct"`
	OrderIndex int       `json:"order_index"`
}

// QuizAttempt is one scored pass through a quiz. TotalPoints is snapshotted
// when the attempt starts; Score is recomputed from the answer ledger at
// completion. Invariant: CompletedAt is set iff Status is "completed".
type QuizAttempt struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	QuizID           uuid.UUID  `json:"quiz_id"`
	Status           string     `json:"status"`
	Score            int        `json:"score"`
	TotalPoints      int        `json:"total_points"`
	TimeTakenMinutes int        `json:"time_taken_minutes"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// UserAnswer is the attempt's answer ledger. At most one row exists per
// (attempt, question); a resubmission updates the row in place.
type UserAnswer struct {
	ID               uuid.UUID  `json:"id"`
	AttemptID        uuid.UUID  `json:"attempt_id"`
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	TextAnswer       string     `json:"text_answer"`
	IsCorrect        bool       `json:"is_correct"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	AnsweredAt       time.Time  `json:"answered_at"`
}

type CreateQuizRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	DifficultyLevel  string `json:"difficulty_level"`
	TimeLimitMinutes *int   `json:"time_limit_minutes"`
}

type CreateQuestionRequest struct {
	Text         string                `json:"text"`
	QuestionType string                `json:"question_type"`
	Explanation  string                `json:"explanation"`
	Difficulty   int                   `json:"difficulty"`
	Points       int                   `json:"points"`
	OrderIndex   int                   `json:"order_index"`
	Options      []AnswerOptionRequest `json:"options"`
}

type AnswerOptionRequest struct {
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index"`
}

type SubmitAnswerRequest struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	TextAnswer       string     `json:"text_answer"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
}

type CompleteAttemptRequest struct {
	TimeTakenMinutes int `json:"time_taken_minutes"`
}

type AttemptResult struct {
	Attempt         *QuizAttempt  `json:"attempt"`
	PercentageScore float64       `json:"percentage_score"`
	Answers         []*UserAnswer `json:"answers"`
}
