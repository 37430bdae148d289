package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studymate-backend/internal/middleware"
	"studymate-backend/internal/models"
	"studymate-backend/internal/repository"
	"studymate-backend/internal/services"
)

var allowedDocumentTypes = map[string]string{
	".pdf":  "pdf",
	".txt":  "txt",
	".docx": "docx",
	".md":   "md",
}

type DocumentHandler struct {
	docRepo       *repository.DocumentRepo
	jobs          *services.JobService
	storagePath   string
	maxUploadSize int64
}

func NewDocumentHandler(docRepo *repository.DocumentRepo, jobs *services.JobService, storagePath string, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		docRepo:       docRepo,
		jobs:          jobs,
		storagePath:   storagePath,
		maxUploadSize: maxUploadSize,
	}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "File too large or invalid form data", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"file": "A file is required"}, r))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	docType, ok := allowedDocumentTypes[ext]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"file": "Unsupported file type. Allowed: pdf, txt, docx, md"}, r))
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(header.Filename, ext)
	}

	if err := os.MkdirAll(h.storagePath, 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}

	storedName := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.storagePath, storedName))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}

	doc := &models.Document{
		UserID:       userID,
		Title:        title,
		FilePath:     storedName,
		DocumentType: docType,
		FileSize:     &size,
	}

	// Plain-text uploads keep their content inline; binary formats wait for the
	// processing job.
	if docType == "txt" || docType == "md" {
		if raw, readErr := os.ReadFile(filepath.Join(h.storagePath, storedName)); readErr == nil {
			text := string(raw)
			doc.OriginalText = &text
		}
	}

	if err := h.docRepo.Create(r.Context(), doc); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create document", r))
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	docs, err := h.docRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list documents", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	var req models.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Title == nil || *req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"title": "Title cannot be empty"}, r))
		return
	}

	if err := h.docRepo.UpdateTitle(r.Context(), doc.ID, *req.Title); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update document", r))
		return
	}

	doc.Title = *req.Title
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	if err := h.docRepo.Delete(r.Context(), doc.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete document", r))
		return
	}

	os.Remove(filepath.Join(h.storagePath, doc.FilePath))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

// Process queues the text extraction job for a document.
func (h *DocumentHandler) Process(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	job, err := h.jobs.Enqueue(r.Context(), userID, "document-processing", doc.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue processing", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"job": job})
}

func (h *DocumentHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	summaries, err := h.docRepo.ListSummariesByDocument(r.Context(), doc.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list summaries", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"summaries": summaries})
}

func (h *DocumentHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	var req models.GenerateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	switch req.SummaryType {
	case "brief", "detailed", "key_points":
	default:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"summary_type": "summary_type must be brief, detailed, or key_points"}, r))
		return
	}

	summary := &models.Summary{
		DocumentID:  doc.ID,
		SummaryType: req.SummaryType,
	}
	if err := h.docRepo.CreateSummary(r.Context(), summary); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create summary", r))
		return
	}

	job, err := h.jobs.Enqueue(r.Context(), userID, "summary-generation", summary.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to queue summary generation", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"summary": summary,
		"job":     job,
	})
}

// ownedDocument resolves the {id} URL param to a document owned by the caller.
// Missing and not-owned documents are indistinguishable to the client.
func (h *DocumentHandler) ownedDocument(w http.ResponseWriter, r *http.Request) (*models.Document, bool) {
	userID := middleware.GetUserID(r.Context())

	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return nil, false
	}

	doc, err := h.docRepo.GetByID(r.Context(), docID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Document not found", r))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load document", r))
		}
		return nil, false
	}

	if doc.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Document not found", r))
		return nil, false
	}

	return doc, true
}
