package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studymate-backend/internal/middleware"
	"studymate-backend/internal/models"
	"studymate-backend/internal/services"
)

type QuizAttemptHandler struct {
	attempts *services.AttemptService
}

func NewQuizAttemptHandler(attempts *services.AttemptService) *QuizAttemptHandler {
	return &QuizAttemptHandler{attempts: attempts}
}

func (h *QuizAttemptHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}

	attempt, err := h.attempts.Start(r.Context(), userID, quizID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, attempt)
}

func (h *QuizAttemptHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	attemptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid attempt ID", r))
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.QuestionID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"question_id": "question_id is required"}, r))
		return
	}

	answer, err := h.attempts.SubmitAnswer(r.Context(), userID, attemptID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func (h *QuizAttemptHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	attemptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid attempt ID", r))
		return
	}

	var req models.CompleteAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	result, err := h.attempts.Complete(r.Context(), userID, attemptID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *QuizAttemptHandler) Results(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	attemptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid attempt ID", r))
		return
	}

	result, err := h.attempts.Results(r.Context(), userID, attemptID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
