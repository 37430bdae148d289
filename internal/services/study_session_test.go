package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studymate-backend/internal/models"
)

type stubSessionStore struct {
	sessions map[uuid.UUID]*models.StudySession
	reviews  []*models.CardReview
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[uuid.UUID]*models.StudySession)}
}

func (s *stubSessionStore) Create(ctx context.Context, sess *models.StudySession) error {
	sess.ID = uuid.New()
	sess.Status = models.StatusStarted
	sess.StartedAt = time.Now()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *stubSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *sess
	return &copied, nil
}

func (s *stubSessionStore) CreateReview(ctx context.Context, rev *models.CardReview) error {
	rev.ID = uuid.New()
	rev.ReviewedAt = time.Now()
	s.reviews = append(s.reviews, rev)
	return nil
}

func (s *stubSessionStore) IncrementCounters(ctx context.Context, sessionID uuid.UUID, correct bool) error {
	sess := s.sessions[sessionID]
	sess.TotalCardsStudied++
	if correct {
		sess.CorrectAnswers++
	}
	return nil
}

func (s *stubSessionStore) CountReviews(ctx context.Context, sessionID uuid.UUID) (int, int, error) {
	studied, correct := 0, 0
	for _, rev := range s.reviews {
		if rev.SessionID == sessionID {
			studied++
			if rev.IsCorrect {
				correct++
			}
		}
	}
	return studied, correct, nil
}

func (s *stubSessionStore) Complete(ctx context.Context, sessionID uuid.UUID, studied, correct, durationMinutes int, completedAt time.Time) error {
	sess := s.sessions[sessionID]
	sess.Status = models.StatusCompleted
	sess.TotalCardsStudied = studied
	sess.CorrectAnswers = correct
	sess.DurationMinutes = durationMinutes
	sess.CompletedAt = &completedAt
	return nil
}

func (s *stubSessionStore) ListReviews(ctx context.Context, sessionID uuid.UUID) ([]*models.CardReview, error) {
	var out []*models.CardReview
	for _, rev := range s.reviews {
		if rev.SessionID == sessionID {
			out = append(out, rev)
		}
	}
	return out, nil
}

type stubCardStore struct {
	sets  map[uuid.UUID]*models.FlashcardSet
	cards map[uuid.UUID]*models.Flashcard
}

func newStubCardStore() *stubCardStore {
	return &stubCardStore{
		sets:  make(map[uuid.UUID]*models.FlashcardSet),
		cards: make(map[uuid.UUID]*models.Flashcard),
	}
}

func (s *stubCardStore) GetSetByID(ctx context.Context, id uuid.UUID) (*models.FlashcardSet, error) {
	set, ok := s.sets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return set, nil
}

func (s *stubCardStore) GetCardByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	card, ok := s.cards[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return card, nil
}

func (s *stubCardStore) addSet(userID uuid.UUID) *models.FlashcardSet {
	set := &models.FlashcardSet{ID: uuid.New(), UserID: userID}
	s.sets[set.ID] = set
	return set
}

func (s *stubCardStore) addCard(setID uuid.UUID) *models.Flashcard {
	card := &models.Flashcard{ID: uuid.New(), SetID: setID}
	s.cards[card.ID] = card
	return card
}

func boolPtr(b bool) *bool { return &b }

func TestStudySessionService_ReviewLedgerIsAppendOnly(t *testing.T) {
	sessions := newStubSessionStore()
	cards := newStubCardStore()
	userID := uuid.New()
	set := cards.addSet(userID)
	card := cards.addCard(set.ID)

	svc := NewStudySessionService(sessions, cards)
	session, err := svc.Start(context.Background(), userID, set.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Same card twice: both reviews count
	if _, err := svc.Review(context.Background(), userID, session.ID, models.ReviewCardRequest{
		FlashcardID: card.ID, IsCorrect: boolPtr(true),
	}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if _, err := svc.Review(context.Background(), userID, session.ID, models.ReviewCardRequest{
		FlashcardID: card.ID, IsCorrect: boolPtr(false),
	}); err != nil {
		t.Fatalf("second review failed: %v", err)
	}

	live, _ := sessions.GetByID(context.Background(), session.ID)
	if live.TotalCardsStudied != 2 {
		t.Fatalf("expected 2 cards studied mid-session, got %d", live.TotalCardsStudied)
	}
	if live.CorrectAnswers != 1 {
		t.Fatalf("expected 1 correct mid-session, got %d", live.CorrectAnswers)
	}

	result, err := svc.Complete(context.Background(), userID, session.ID, models.CompleteSessionRequest{DurationMinutes: 12})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.Session.TotalCardsStudied != 2 || result.Session.CorrectAnswers != 1 {
		t.Fatalf("completion recount wrong: studied=%d correct=%d",
			result.Session.TotalCardsStudied, result.Session.CorrectAnswers)
	}
	if result.AccuracyPercentage != 50 {
		t.Fatalf("expected 50%% accuracy, got %v", result.AccuracyPercentage)
	}
	if result.Session.CompletedAt == nil {
		t.Fatal("completed session must carry completed_at")
	}
	if result.Session.DurationMinutes != 12 {
		t.Fatalf("duration not recorded: %d", result.Session.DurationMinutes)
	}
}

func TestStudySessionService_Review_RequiresIsCorrect(t *testing.T) {
	sessions := newStubSessionStore()
	cards := newStubCardStore()
	userID := uuid.New()
	set := cards.addSet(userID)
	card := cards.addCard(set.ID)

	svc := NewStudySessionService(sessions, cards)
	session, _ := svc.Start(context.Background(), userID, set.ID)

	_, err := svc.Review(context.Background(), userID, session.ID, models.ReviewCardRequest{
		FlashcardID: card.ID,
	})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
}

func TestStudySessionService_Review_CardMustBelongToSet(t *testing.T) {
	sessions := newStubSessionStore()
	cards := newStubCardStore()
	userID := uuid.New()
	set := cards.addSet(userID)
	otherSet := cards.addSet(userID)
	foreignCard := cards.addCard(otherSet.ID)

	svc := NewStudySessionService(sessions, cards)
	session, _ := svc.Start(context.Background(), userID, set.ID)

	_, err := svc.Review(context.Background(), userID, session.ID, models.ReviewCardRequest{
		FlashcardID: foreignCard.ID, IsCorrect: boolPtr(true),
	})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError for card outside set, got %T (%v)", err, err)
	}
}

func TestStudySessionService_Review_AfterComplete(t *testing.T) {
	sessions := newStubSessionStore()
	cards := newStubCardStore()
	userID := uuid.New()
	set := cards.addSet(userID)
	card := cards.addCard(set.ID)

	svc := NewStudySessionService(sessions, cards)
	session, _ := svc.Start(context.Background(), userID, set.ID)
	svc.Complete(context.Background(), userID, session.ID, models.CompleteSessionRequest{})

	_, err := svc.Review(context.Background(), userID, session.ID, models.ReviewCardRequest{
		FlashcardID: card.ID, IsCorrect: boolPtr(true),
	})
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected ConflictError, got %T (%v)", err, err)
	}
}

func TestStudySessionService_Complete_Twice(t *testing.T) {
	sessions := newStubSessionStore()
	cards := newStubCardStore()
	userID := uuid.New()
	set := cards.addSet(userID)

	svc := NewStudySessionService(sessions, cards)
	session, _ := svc.Start(context.Background(), userID, set.ID)

	if _, err := svc.Complete(context.Background(), userID, session.ID, models.CompleteSessionRequest{}); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}
	_, err := svc.Complete(context.Background(), userID, session.ID, models.CompleteSessionRequest{})
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected ConflictError on double complete, got %T (%v)", err, err)
	}
}

func TestStudySessionService_EmptySessionCompletesAtZero(t *testing.T) {
	sessions := newStubSessionStore()
	cards := newStubCardStore()
	userID := uuid.New()
	set := cards.addSet(userID)

	svc := NewStudySessionService(sessions, cards)
	session, _ := svc.Start(context.Background(), userID, set.ID)

	result, err := svc.Complete(context.Background(), userID, session.ID, models.CompleteSessionRequest{})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.AccuracyPercentage != 0 {
		t.Fatalf("empty session accuracy should be 0, got %v", result.AccuracyPercentage)
	}
}

func TestStudySessionService_CrossUserLooksMissing(t *testing.T) {
	sessions := newStubSessionStore()
	cards := newStubCardStore()
	ownerID := uuid.New()
	set := cards.addSet(ownerID)

	svc := NewStudySessionService(sessions, cards)
	session, _ := svc.Start(context.Background(), ownerID, set.ID)

	_, err := svc.Get(context.Background(), uuid.New(), session.ID)
	if _, ok := err.(*NotOwnedError); !ok {
		t.Fatalf("expected NotOwnedError, got %T (%v)", err, err)
	}

	_, err = svc.Start(context.Background(), uuid.New(), set.ID)
	if _, ok := err.(*NotOwnedError); !ok {
		t.Fatalf("expected NotOwnedError starting on another user's set, got %T (%v)", err, err)
	}
}
