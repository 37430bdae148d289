package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studymate-backend/internal/middleware"
	"studymate-backend/internal/models"
	"studymate-backend/internal/repository"
)

type QuizHandler struct {
	repo *repository.QuizRepo
}

func NewQuizHandler(repo *repository.QuizRepo) *QuizHandler {
	return &QuizHandler{repo: repo}
}

func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"title": "Title is required"}, r))
		return
	}

	quiz := &models.Quiz{
		UserID:           userID,
		Title:            req.Title,
		Description:      req.Description,
		DifficultyLevel:  req.DifficultyLevel,
		TimeLimitMinutes: req.TimeLimitMinutes,
	}

	if err := h.repo.Create(r.Context(), quiz); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create quiz", r))
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	quizzes, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list quizzes", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.ownedQuiz(w, r)
	if !ok {
		return
	}

	questions, err := h.repo.ListQuestionsByQuiz(r.Context(), quiz.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load questions", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":      quiz,
		"questions": questions,
	})
}

func (h *QuizHandler) Update(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.ownedQuiz(w, r)
	if !ok {
		return
	}

	var req struct {
		Title            *string `json:"title"`
		Description      *string `json:"description"`
		DifficultyLevel  *string `json:"difficulty_level"`
		TimeLimitMinutes *int    `json:"time_limit_minutes"`
		IsActive         *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"title": "Title cannot be empty"}, r))
			return
		}
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.DifficultyLevel != nil {
		quiz.DifficultyLevel = *req.DifficultyLevel
	}
	if req.TimeLimitMinutes != nil {
		quiz.TimeLimitMinutes = req.TimeLimitMinutes
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), quiz); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update quiz", r))
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.ownedQuiz(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), quiz.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete quiz", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz deleted"})
}

// Question endpoints

func (h *QuizHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.ownedQuiz(w, r)
	if !ok {
		return
	}

	var req models.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if req.Text == "" {
		fields["text"] = "Question text is required"
	}
	switch req.QuestionType {
	case models.QuestionTypeMultipleChoice, models.QuestionTypeTrueFalse:
		if len(req.Options) < 2 {
			fields["options"] = "At least two answer options are required"
		} else {
			correct := 0
			for _, o := range req.Options {
				if o.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				fields["options"] = "Exactly one option must be marked correct"
			}
		}
	case models.QuestionTypeFillBlank:
		if len(req.Options) > 0 {
			fields["options"] = "Fill-in-the-blank questions take no options"
		}
	default:
		fields["question_type"] = "question_type must be multiple_choice, true_false, or fill_blank"
	}
	if req.Points < 0 {
		fields["points"] = "Points cannot be negative"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	question := &models.Question{
		QuizID:       quiz.ID,
		Text:         req.Text,
		QuestionType: req.QuestionType,
		Explanation:  req.Explanation,
		Difficulty:   req.Difficulty,
		Points:       req.Points,
		OrderIndex:   req.OrderIndex,
	}
	for _, o := range req.Options {
		question.Options = append(question.Options, models.AnswerOption{
			Text:       o.Text,
			IsCorrect:  o.IsCorrect,
			OrderIndex: o.OrderIndex,
		})
	}

	if err := h.repo.CreateQuestion(r.Context(), question); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create question", r))
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

func (h *QuizHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.ownedQuiz(w, r)
	if !ok {
		return
	}

	question, ok := h.questionInQuiz(w, r, quiz.ID)
	if !ok {
		return
	}

	var req struct {
		Text        *string `json:"text"`
		Explanation *string `json:"explanation"`
		Difficulty  *int    `json:"difficulty"`
		Points      *int    `json:"points"`
		OrderIndex  *int    `json:"order_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Explanation != nil {
		question.Explanation = *req.Explanation
	}
	if req.Difficulty != nil {
		question.Difficulty = *req.Difficulty
	}
	if req.Points != nil {
		if *req.Points < 0 {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"points": "Points cannot be negative"}, r))
			return
		}
		question.Points = *req.Points
	}
	if req.OrderIndex != nil {
		question.OrderIndex = *req.OrderIndex
	}

	if err := h.repo.UpdateQuestion(r.Context(), question); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update question", r))
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *QuizHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	quiz, ok := h.ownedQuiz(w, r)
	if !ok {
		return
	}

	question, ok := h.questionInQuiz(w, r, quiz.ID)
	if !ok {
		return
	}

	if err := h.repo.DeleteQuestion(r.Context(), question.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete question", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Question deleted"})
}

func (h *QuizHandler) ownedQuiz(w http.ResponseWriter, r *http.Request) (*models.Quiz, bool) {
	userID := middleware.GetUserID(r.Context())

	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return nil, false
	}

	quiz, err := h.repo.GetByID(r.Context(), quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quiz", r))
		}
		return nil, false
	}

	if quiz.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return nil, false
	}

	return quiz, true
}

func (h *QuizHandler) questionInQuiz(w http.ResponseWriter, r *http.Request, quizID uuid.UUID) (*models.Question, bool) {
	questionID, err := uuid.Parse(chi.URLParam(r, "questionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid question ID", r))
		return nil, false
	}

	question, err := h.repo.GetQuestionByID(r.Context(), questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Question not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load question", r))
		}
		return nil, false
	}

	if question.QuizID != quizID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Question not found", r))
		return nil, false
	}

	return question, true
}
