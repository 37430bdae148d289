package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studymate-backend/internal/models"
)

type stubAttemptStore struct {
	quizzes   map[uuid.UUID]*models.Quiz
	questions map[uuid.UUID]*models.Question
	attempts  map[uuid.UUID]*models.QuizAttempt
	answers   map[uuid.UUID]map[uuid.UUID]*models.UserAnswer
}

func newStubAttemptStore() *stubAttemptStore {
	return &stubAttemptStore{
		quizzes:   make(map[uuid.UUID]*models.Quiz),
		questions: make(map[uuid.UUID]*models.Question),
		attempts:  make(map[uuid.UUID]*models.QuizAttempt),
		answers:   make(map[uuid.UUID]map[uuid.UUID]*models.UserAnswer),
	}
}

func (s *stubAttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return q, nil
}

func (s *stubAttemptStore) GetQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	qn, ok := s.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return qn, nil
}

func (s *stubAttemptStore) SumQuestionPoints(ctx context.Context, quizID uuid.UUID) (int, error) {
	total := 0
	for _, qn := range s.questions {
		if qn.QuizID == quizID {
			total += qn.Points
		}
	}
	return total, nil
}

func (s *stubAttemptStore) CreateAttempt(ctx context.Context, a *models.QuizAttempt) error {
	a.ID = uuid.New()
	a.Status = models.StatusStarted
	a.StartedAt = time.Now()
	s.attempts[a.ID] = a
	return nil
}

func (s *stubAttemptStore) GetAttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error) {
	a, ok := s.attempts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (s *stubAttemptStore) UpsertAnswer(ctx context.Context, ans *models.UserAnswer) error {
	if s.answers[ans.AttemptID] == nil {
		s.answers[ans.AttemptID] = make(map[uuid.UUID]*models.UserAnswer)
	}
	if existing, ok := s.answers[ans.AttemptID][ans.QuestionID]; ok {
		ans.ID = existing.ID
	} else {
		ans.ID = uuid.New()
	}
	ans.AnsweredAt = time.Now()
	s.answers[ans.AttemptID][ans.QuestionID] = ans
	return nil
}

func (s *stubAttemptStore) SumCorrectPoints(ctx context.Context, attemptID uuid.UUID) (int, error) {
	score := 0
	for qnID, ans := range s.answers[attemptID] {
		if ans.IsCorrect {
			score += s.questions[qnID].Points
		}
	}
	return score, nil
}

func (s *stubAttemptStore) CompleteAttempt(ctx context.Context, attemptID uuid.UUID, score, timeTakenMinutes int, completedAt time.Time) error {
	a := s.attempts[attemptID]
	a.Status = models.StatusCompleted
	a.Score = score
	a.TimeTakenMinutes = timeTakenMinutes
	a.CompletedAt = &completedAt
	return nil
}

func (s *stubAttemptStore) ListAnswersByAttempt(ctx context.Context, attemptID uuid.UUID) ([]*models.UserAnswer, error) {
	var out []*models.UserAnswer
	for _, ans := range s.answers[attemptID] {
		out = append(out, ans)
	}
	return out, nil
}

func (s *stubAttemptStore) addQuestion(quizID uuid.UUID, qType string, points int) *models.Question {
	qn := &models.Question{
		ID:           uuid.New(),
		QuizID:       quizID,
		QuestionType: qType,
		Points:       points,
	}
	if qType == models.QuestionTypeMultipleChoice || qType == models.QuestionTypeTrueFalse {
		qn.Options = []models.AnswerOption{
			{ID: uuid.New(), QuestionID: qn.ID, Text: "right", IsCorrect: true},
			{ID: uuid.New(), QuestionID: qn.ID, Text: "wrong", IsCorrect: false},
		}
	}
	s.questions[qn.ID] = qn
	return qn
}

func correctOption(qn *models.Question) *uuid.UUID {
	for i := range qn.Options {
		if qn.Options[i].IsCorrect {
			return &qn.Options[i].ID
		}
	}
	return nil
}

func wrongOption(qn *models.Question) *uuid.UUID {
	for i := range qn.Options {
		if !qn.Options[i].IsCorrect {
			return &qn.Options[i].ID
		}
	}
	return nil
}

func TestAttemptService_Start_SnapshotsTotalPoints(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz
	store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 1)
	store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 2)
	store.addQuestion(quiz.ID, models.QuestionTypeTrueFalse, 3)

	svc := NewAttemptService(store)

	attempt, err := svc.Start(context.Background(), userID, quiz.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if attempt.TotalPoints != 6 {
		t.Fatalf("expected total points 6, got %d", attempt.TotalPoints)
	}
	if attempt.Status != models.StatusStarted {
		t.Fatalf("expected status started, got %q", attempt.Status)
	}

	// Editing questions after start must not touch the snapshot
	store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 10)
	reloaded, _ := store.GetAttemptByID(context.Background(), attempt.ID)
	if reloaded.TotalPoints != 6 {
		t.Fatalf("snapshot changed after question edit: got %d", reloaded.TotalPoints)
	}
}

func TestAttemptService_Start_InactiveQuizHidden(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: false}
	store.quizzes[quiz.ID] = quiz

	svc := NewAttemptService(store)

	_, err := svc.Start(context.Background(), userID, quiz.ID)
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError for inactive quiz, got %T (%v)", err, err)
	}
}

func TestAttemptService_Start_OtherUsersQuizHidden(t *testing.T) {
	store := newStubAttemptStore()
	quiz := &models.Quiz{ID: uuid.New(), UserID: uuid.New(), IsActive: true}
	store.quizzes[quiz.ID] = quiz

	svc := NewAttemptService(store)

	_, err := svc.Start(context.Background(), uuid.New(), quiz.ID)
	if _, ok := err.(*NotOwnedError); !ok {
		t.Fatalf("expected NotOwnedError, got %T (%v)", err, err)
	}
}

func TestAttemptService_SubmitAnswer_GradesChoiceQuestions(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz
	qn := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 2)

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)

	ans, err := svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{
		QuestionID:       qn.ID,
		SelectedOptionID: correctOption(qn),
	})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if !ans.IsCorrect {
		t.Fatal("correct option should grade as correct")
	}

	ans, err = svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{
		QuestionID:       qn.ID,
		SelectedOptionID: wrongOption(qn),
	})
	if err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	if ans.IsCorrect {
		t.Fatal("wrong option should grade as incorrect")
	}

	// Resubmission replaces the ledger row rather than adding one
	answers, _ := store.ListAnswersByAttempt(context.Background(), attempt.ID)
	if len(answers) != 1 {
		t.Fatalf("expected 1 ledger row after resubmission, got %d", len(answers))
	}
}

func TestAttemptService_SubmitAnswer_RequiresOptionForChoice(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz
	qn := store.addQuestion(quiz.ID, models.QuestionTypeTrueFalse, 1)

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)

	_, err := svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{
		QuestionID: qn.ID,
	})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
}

func TestAttemptService_SubmitAnswer_OptionMustBelongToQuestion(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz
	qn := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 1)
	other := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 1)

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)

	_, err := svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{
		QuestionID:       qn.ID,
		SelectedOptionID: correctOption(other),
	})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError for foreign option, got %T (%v)", err, err)
	}
}

func TestAttemptService_SubmitAnswer_FillBlankNeverAutoGrades(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz
	qn := store.addQuestion(quiz.ID, models.QuestionTypeFillBlank, 1)

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)

	ans, err := svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{
		QuestionID: qn.ID,
		TextAnswer: "mitochondria",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if ans.IsCorrect {
		t.Fatal("fill-blank answers must not auto-grade correct")
	}
	if ans.TextAnswer != "mitochondria" {
		t.Fatalf("text answer not recorded: %q", ans.TextAnswer)
	}
}

func TestAttemptService_SubmitAnswer_CrossUserLooksMissing(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz
	qn := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 1)

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)

	_, err := svc.SubmitAnswer(context.Background(), uuid.New(), attempt.ID, models.SubmitAnswerRequest{
		QuestionID:       qn.ID,
		SelectedOptionID: correctOption(qn),
	})
	if _, ok := err.(*NotOwnedError); !ok {
		t.Fatalf("expected NotOwnedError, got %T (%v)", err, err)
	}
}

func TestAttemptService_Complete_RecomputesScoreFromLedger(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz
	q1 := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 1)
	q2 := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 2)
	q3 := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 3)
	q4 := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 4)

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)

	svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{QuestionID: q1.ID, SelectedOptionID: correctOption(q1)})
	svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{QuestionID: q2.ID, SelectedOptionID: wrongOption(q2)})
	svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{QuestionID: q3.ID, SelectedOptionID: correctOption(q3)})
	svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{QuestionID: q4.ID, SelectedOptionID: wrongOption(q4)})

	result, err := svc.Complete(context.Background(), userID, attempt.ID, models.CompleteAttemptRequest{TimeTakenMinutes: 7})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.Attempt.Score != 4 {
		t.Fatalf("expected score 4, got %d", result.Attempt.Score)
	}
	if result.PercentageScore != 40 {
		t.Fatalf("expected 40%%, got %v", result.PercentageScore)
	}
	if result.Attempt.CompletedAt == nil {
		t.Fatal("completed attempt must carry completed_at")
	}
	if result.Attempt.TimeTakenMinutes != 7 {
		t.Fatalf("time taken not recorded: %d", result.Attempt.TimeTakenMinutes)
	}
}

func TestAttemptService_Complete_Twice(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)

	if _, err := svc.Complete(context.Background(), userID, attempt.ID, models.CompleteAttemptRequest{}); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}

	_, err := svc.Complete(context.Background(), userID, attempt.ID, models.CompleteAttemptRequest{})
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected ConflictError on double complete, got %T (%v)", err, err)
	}
}

func TestAttemptService_SubmitAnswer_AfterComplete(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz
	qn := store.addQuestion(quiz.ID, models.QuestionTypeMultipleChoice, 1)

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)
	svc.Complete(context.Background(), userID, attempt.ID, models.CompleteAttemptRequest{})

	_, err := svc.SubmitAnswer(context.Background(), userID, attempt.ID, models.SubmitAnswerRequest{
		QuestionID:       qn.ID,
		SelectedOptionID: correctOption(qn),
	})
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected ConflictError for submit into completed attempt, got %T (%v)", err, err)
	}
}

func TestAttemptService_Results_OnlyAfterCompletion(t *testing.T) {
	store := newStubAttemptStore()
	userID := uuid.New()
	quiz := &models.Quiz{ID: uuid.New(), UserID: userID, IsActive: true}
	store.quizzes[quiz.ID] = quiz

	svc := NewAttemptService(store)
	attempt, _ := svc.Start(context.Background(), userID, quiz.ID)

	_, err := svc.Results(context.Background(), userID, attempt.ID)
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError for in-progress results, got %T (%v)", err, err)
	}

	svc.Complete(context.Background(), userID, attempt.ID, models.CompleteAttemptRequest{})

	result, err := svc.Results(context.Background(), userID, attempt.ID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if result.Attempt.Status != models.StatusCompleted {
		t.Fatalf("expected completed status, got %q", result.Attempt.Status)
	}
}
