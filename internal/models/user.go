package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Bio          *string    `json:"bio"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UserStats is the aggregate view behind GET /user/stats. The average score and
// study time only consider completed attempts/sessions.
type UserStats struct {
	TotalDocuments        int     `json:"total_documents"`
	TotalFlashcardSets    int     `json:"total_flashcard_sets"`
	TotalQuizzes          int     `json:"total_quizzes"`
	TotalStudySessions    int     `json:"total_study_sessions"`
	TotalQuizAttempts     int     `json:"total_quiz_attempts"`
	AvgQuizScore          float64 `json:"avg_quiz_score"`
	TotalStudyTimeMinutes int     `json:"total_study_time_minutes"`
}
