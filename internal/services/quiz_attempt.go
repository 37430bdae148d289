package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studymate-backend/internal/models"
)

// AttemptStore is the slice of QuizRepo that attempt grading needs.
type AttemptStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	GetQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	SumQuestionPoints(ctx context.Context, quizID uuid.UUID) (int, error)
	CreateAttempt(ctx context.Context, a *models.QuizAttempt) error
	GetAttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error)
	UpsertAnswer(ctx context.Context, ans *models.UserAnswer) error
	SumCorrectPoints(ctx context.Context, attemptID uuid.UUID) (int, error)
	CompleteAttempt(ctx context.Context, attemptID uuid.UUID, score, timeTakenMinutes int, completedAt time.Time) error
	ListAnswersByAttempt(ctx context.Context, attemptID uuid.UUID) ([]*models.UserAnswer, error)
}

// AttemptService runs the quiz attempt lifecycle: start with a total_points
// snapshot, grade per answer into the upsert ledger, recompute the score once
// at completion.
type AttemptService struct {
	store AttemptStore
}

func NewAttemptService(store AttemptStore) *AttemptService {
	return &AttemptService{store: store}
}

func (s *AttemptService) Start(ctx context.Context, userID, quizID uuid.UUID) (*models.QuizAttempt, error) {
	quiz, err := s.store.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Quiz not found"}
		}
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, &NotOwnedError{Message: "Quiz not found"}
	}
	if !quiz.IsActive {
		return nil, &NotFoundError{Message: "Quiz not found"}
	}

	totalPoints, err := s.store.SumQuestionPoints(ctx, quizID)
	if err != nil {
		return nil, err
	}

	attempt := &models.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		TotalPoints: totalPoints,
	}
	if err := s.store.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) SubmitAnswer(ctx context.Context, userID, attemptID uuid.UUID, req models.SubmitAnswerRequest) (*models.UserAnswer, error) {
	attempt, err := s.getOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != models.StatusStarted {
		return nil, &ConflictError{Message: "Attempt is already completed"}
	}

	question, err := s.store.GetQuestionByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Question not found"}
		}
		return nil, err
	}
	if question.QuizID != attempt.QuizID {
		return nil, &NotFoundError{Message: "Question not found"}
	}

	ans := &models.UserAnswer{
		AttemptID:        attemptID,
		QuestionID:       question.ID,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}

	switch question.QuestionType {
	case models.QuestionTypeMultipleChoice, models.QuestionTypeTrueFalse:
		if req.SelectedOptionID == nil {
			return nil, &ValidationError{Fields: map[string]string{
				"selected_option_id": "An option must be selected for this question type",
			}}
		}
		var option *models.AnswerOption
		for i := range question.Options {
			if question.Options[i].ID == *req.SelectedOptionID {
				option = &question.Options[i]
				break
			}
		}
		if option == nil {
			return nil, &NotFoundError{Message: "Answer option not found"}
		}
		ans.SelectedOptionID = req.SelectedOptionID
		ans.IsCorrect = option.IsCorrect
	case models.QuestionTypeFillBlank:
		// Recorded verbatim, graded false until a human marks it.
		ans.TextAnswer = req.TextAnswer
		ans.IsCorrect = false
	default:
		return nil, &ValidationError{Fields: map[string]string{
			"question_type": "Unsupported question type",
		}}
	}

	if err := s.store.UpsertAnswer(ctx, ans); err != nil {
		return nil, err
	}
	return ans, nil
}

func (s *AttemptService) Complete(ctx context.Context, userID, attemptID uuid.UUID, req models.CompleteAttemptRequest) (*models.AttemptResult, error) {
	attempt, err := s.getOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != models.StatusStarted {
		return nil, &ConflictError{Message: "Attempt is already completed"}
	}

	score, err := s.store.SumCorrectPoints(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.store.CompleteAttempt(ctx, attemptID, score, req.TimeTakenMinutes, now); err != nil {
		return nil, err
	}

	attempt.Status = models.StatusCompleted
	attempt.Score = score
	attempt.TimeTakenMinutes = req.TimeTakenMinutes
	attempt.CompletedAt = &now

	return &models.AttemptResult{
		Attempt:         attempt,
		PercentageScore: PercentageScore(score, attempt.TotalPoints),
	}, nil
}

// Results returns the graded breakdown of a completed attempt. Attempts still
// in progress report not found; results exist only after completion.
func (s *AttemptService) Results(ctx context.Context, userID, attemptID uuid.UUID) (*models.AttemptResult, error) {
	attempt, err := s.getOwnedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != models.StatusCompleted {
		return nil, &NotFoundError{Message: "Results not available"}
	}

	answers, err := s.store.ListAnswersByAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	return &models.AttemptResult{
		Attempt:         attempt,
		PercentageScore: PercentageScore(attempt.Score, attempt.TotalPoints),
		Answers:         answers,
	}, nil
}

func (s *AttemptService) getOwnedAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*models.QuizAttempt, error) {
	attempt, err := s.store.GetAttemptByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Attempt not found"}
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, &NotOwnedError{Message: "Attempt not found"}
	}
	return attempt, nil
}
