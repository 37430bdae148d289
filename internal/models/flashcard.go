package models

import (
	"time"

	"github.com/google/uuid"
)

type FlashcardSet struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DifficultyLevel string    `json:"difficulty_level"` // "beginner" | "intermediate" | "advanced"
	ColorTheme      string    `json:"color_theme"`
	CardCount       int       `json:"card_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Flashcard struct {
	ID         uuid.UUID `json:"id"`
	SetID      uuid.UUID `json:"set_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Hint       string    `json:"hint"`
	Difficulty int       `json:"difficulty"` // 1=easy, 2=medium, 3=hard
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StudySession is one self-graded pass through a flashcard set.
// Invariant: CompletedAt is set if and only if Status is "completed".
type StudySession struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	SetID             uuid.UUID  `json:"set_id"`
	Status            string     `json:"status"` // "started" | "completed"
	TotalCardsStudied int        `json:"total_cards_studied"`
	CorrectAnswers    int        `json:"correct_answers"`
	DurationMinutes   int        `json:"duration_minutes"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// CardReview rows are append-only: reviewing the same card twice in a session
// produces two rows.
type CardReview struct {
	ID               uuid.UUID `json:"id"`
	SessionID        uuid.UUID `json:"session_id"`
	FlashcardID      uuid.UUID `json:"flashcard_id"`
	IsCorrect        bool      `json:"is_correct"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}

type CreateFlashcardSetRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DifficultyLevel string `json:"difficulty_level"`
	ColorTheme      string `json:"color_theme"`
}

type CreateFlashcardRequest struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Hint       string `json:"hint"`
	Difficulty int    `json:"difficulty"`
	OrderIndex int    `json:"order_index"`
}

type ReviewCardRequest struct {
	FlashcardID      uuid.UUID `json:"flashcard_id"`
	IsCorrect        *bool     `json:"is_correct"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
}

type CompleteSessionRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

type StudySessionResult struct {
	Session            *StudySession `json:"session"`
	AccuracyPercentage float64       `json:"accuracy_percentage"`
}
