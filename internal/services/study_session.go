package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studymate-backend/internal/models"
)

type SessionStore interface {
	Create(ctx context.Context, s *models.StudySession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error)
	CreateReview(ctx context.Context, rev *models.CardReview) error
	IncrementCounters(ctx context.Context, sessionID uuid.UUID, correct bool) error
	CountReviews(ctx context.Context, sessionID uuid.UUID) (studied int, correct int, err error)
	Complete(ctx context.Context, sessionID uuid.UUID, studied, correct, durationMinutes int, completedAt time.Time) error
	ListReviews(ctx context.Context, sessionID uuid.UUID) ([]*models.CardReview, error)
}

type CardStore interface {
	GetSetByID(ctx context.Context, id uuid.UUID) (*models.FlashcardSet, error)
	GetCardByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error)
}

// StudySessionService tracks self-graded flashcard sessions. Reviews append to
// a ledger and bump live counters; completion recounts the ledger so the final
// totals cannot drift from it.
type StudySessionService struct {
	sessions SessionStore
	cards    CardStore
}

func NewStudySessionService(sessions SessionStore, cards CardStore) *StudySessionService {
	return &StudySessionService{sessions: sessions, cards: cards}
}

func (s *StudySessionService) Start(ctx context.Context, userID, setID uuid.UUID) (*models.StudySession, error) {
	set, err := s.cards.GetSetByID(ctx, setID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Flashcard set not found"}
		}
		return nil, err
	}
	if set.UserID != userID {
		return nil, &NotOwnedError{Message: "Flashcard set not found"}
	}

	session := &models.StudySession{
		UserID: userID,
		SetID:  setID,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *StudySessionService) Review(ctx context.Context, userID, sessionID uuid.UUID, req models.ReviewCardRequest) (*models.CardReview, error) {
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusStarted {
		return nil, &ConflictError{Message: "Session is already completed"}
	}

	if req.IsCorrect == nil {
		return nil, &ValidationError{Fields: map[string]string{
			"is_correct": "is_correct is required",
		}}
	}

	card, err := s.cards.GetCardByID(ctx, req.FlashcardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Flashcard not found"}
		}
		return nil, err
	}
	if card.SetID != session.SetID {
		return nil, &NotFoundError{Message: "Flashcard not found"}
	}

	review := &models.CardReview{
		SessionID:        sessionID,
		FlashcardID:      card.ID,
		IsCorrect:        *req.IsCorrect,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	if err := s.sessions.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	if err := s.sessions.IncrementCounters(ctx, sessionID, review.IsCorrect); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *StudySessionService) Complete(ctx context.Context, userID, sessionID uuid.UUID, req models.CompleteSessionRequest) (*models.StudySessionResult, error) {
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusStarted {
		return nil, &ConflictError{Message: "Session is already completed"}
	}

	studied, correct, err := s.sessions.CountReviews(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.sessions.Complete(ctx, sessionID, studied, correct, req.DurationMinutes, now); err != nil {
		return nil, err
	}

	session.Status = models.StatusCompleted
	session.TotalCardsStudied = studied
	session.CorrectAnswers = correct
	session.DurationMinutes = req.DurationMinutes
	session.CompletedAt = &now

	return &models.StudySessionResult{
		Session:            session,
		AccuracyPercentage: AccuracyPercentage(correct, studied),
	}, nil
}

func (s *StudySessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*models.StudySessionResult, error) {
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &models.StudySessionResult{
		Session:            session,
		AccuracyPercentage: AccuracyPercentage(session.CorrectAnswers, session.TotalCardsStudied),
	}, nil
}

func (s *StudySessionService) getOwnedSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.StudySession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Study session not found"}
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, &NotOwnedError{Message: "Study session not found"}
	}
	return session, nil
}
