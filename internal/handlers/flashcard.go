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

type FlashcardHandler struct {
	repo *repository.FlashcardRepo
}

func NewFlashcardHandler(repo *repository.FlashcardRepo) *FlashcardHandler {
	return &FlashcardHandler{repo: repo}
}

// Set endpoints

func (h *FlashcardHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateFlashcardSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"title": "Title is required"}, r))
		return
	}

	set := &models.FlashcardSet{
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		ColorTheme:      req.ColorTheme,
	}

	if err := h.repo.CreateSet(r.Context(), set); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create flashcard set", r))
		return
	}

	writeJSON(w, http.StatusCreated, set)
}

func (h *FlashcardHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sets, err := h.repo.ListSetsByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list flashcard sets", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sets": sets})
}

func (h *FlashcardHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	cards, err := h.repo.ListCardsBySet(r.Context(), set.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load flashcards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"set":   set,
		"cards": cards,
	})
}

func (h *FlashcardHandler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	var req models.CreateFlashcardSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Title != "" {
		set.Title = req.Title
	}
	if req.Description != "" {
		set.Description = req.Description
	}
	if req.DifficultyLevel != "" {
		set.DifficultyLevel = req.DifficultyLevel
	}
	if req.ColorTheme != "" {
		set.ColorTheme = req.ColorTheme
	}

	if err := h.repo.UpdateSet(r.Context(), set); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update flashcard set", r))
		return
	}

	writeJSON(w, http.StatusOK, set)
}

func (h *FlashcardHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteSet(r.Context(), set.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete flashcard set", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard set deleted"})
}

// Card endpoints

func (h *FlashcardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	var req models.CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if req.Question == "" {
		fields["question"] = "Question is required"
	}
	if req.Answer == "" {
		fields["answer"] = "Answer is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	card := &models.Flashcard{
		SetID:      set.ID,
		Question:   req.Question,
		Answer:     req.Answer,
		Hint:       req.Hint,
		Difficulty: req.Difficulty,
		OrderIndex: req.OrderIndex,
	}

	if err := h.repo.CreateCard(r.Context(), card); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create flashcard", r))
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

func (h *FlashcardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	card, ok := h.cardInSet(w, r, set.ID)
	if !ok {
		return
	}

	var req models.CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Question != "" {
		card.Question = req.Question
	}
	if req.Answer != "" {
		card.Answer = req.Answer
	}
	if req.Hint != "" {
		card.Hint = req.Hint
	}
	if req.Difficulty != 0 {
		card.Difficulty = req.Difficulty
	}
	if req.OrderIndex != 0 {
		card.OrderIndex = req.OrderIndex
	}

	if err := h.repo.UpdateCard(r.Context(), card); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update flashcard", r))
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	set, ok := h.ownedSet(w, r)
	if !ok {
		return
	}

	card, ok := h.cardInSet(w, r, set.ID)
	if !ok {
		return
	}

	if err := h.repo.DeleteCard(r.Context(), card.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete flashcard", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard deleted"})
}

func (h *FlashcardHandler) ownedSet(w http.ResponseWriter, r *http.Request) (*models.FlashcardSet, bool) {
	userID := middleware.GetUserID(r.Context())

	setID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid set ID", r))
		return nil, false
	}

	set, err := h.repo.GetSetByID(r.Context(), setID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load flashcard set", r))
		}
		return nil, false
	}

	if set.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard set not found", r))
		return nil, false
	}

	return set, true
}

func (h *FlashcardHandler) cardInSet(w http.ResponseWriter, r *http.Request, setID uuid.UUID) (*models.Flashcard, bool) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return nil, false
	}

	card, err := h.repo.GetCardByID(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load flashcard", r))
		}
		return nil, false
	}

	if card.SetID != setID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		return nil, false
	}

	return card, true
}
