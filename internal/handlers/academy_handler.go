package handlers

import (
	"net/http"

	"codespark/internal/models"
	"codespark/internal/service"
)

// AcademyHandler serves the lesson path
type AcademyHandler struct {
	progress *service.ProgressService
}

// NewAcademyHandler creates a new academy handler
func NewAcademyHandler(progress *service.ProgressService) *AcademyHandler {
	return &AcademyHandler{progress: progress}
}

type completionResponse struct {
	Message string `json:"message"`
	models.PathView
	Progress interface{} `json:"progress"`
}

// Path returns the learning path with statuses and the profile
func (h *AcademyHandler) Path(w http.ResponseWriter, r *http.Request) {
	session, _ := GetSessionFromContext(r.Context())

	view, err := h.progress.Path(r.Context(), session.Learner())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load path", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Lesson returns one lesson's cards
func (h *AcademyHandler) Lesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.progress.Lesson(r.PathValue("lessonId"))
	if err != nil {
		respondWithLookupError(w, err, ErrLessonNotFound, "Failed to load lesson")
		return
	}

	respondJSON(w, http.StatusOK, lesson)
}

// CompleteLesson marks a lesson completed, applying optional hearts and streak from the body
func (h *AcademyHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	session, _ := GetSessionFromContext(r.Context())

	var stats models.LessonStats
	if err := decodeJSON(w, r, smallBodyBytes, &stats); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	result, err := h.progress.CompleteLesson(r.Context(), session.Learner(), r.PathValue("lessonId"), stats)
	if err != nil {
		respondWithLookupError(w, err, ErrLessonNotFound, "Failed to complete lesson")
		return
	}

	respondJSON(w, http.StatusOK, completionResponse{
		Message:  MsgLessonCompleted,
		PathView: result.PathView,
		Progress: result.Progress,
	})
}

// CompleteCheckpoint marks a checkpoint completed
func (h *AcademyHandler) CompleteCheckpoint(w http.ResponseWriter, r *http.Request) {
	session, _ := GetSessionFromContext(r.Context())

	result, err := h.progress.CompleteCheckpoint(r.Context(), session.Learner(), r.PathValue("checkpointId"))
	if err != nil {
		respondWithLookupError(w, err, ErrCheckpointNotFound, "Failed to complete checkpoint")
		return
	}

	respondJSON(w, http.StatusOK, completionResponse{
		Message:  MsgCheckpointUnlocked,
		PathView: result.PathView,
		Progress: result.Progress,
	})
}
