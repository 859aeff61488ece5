package handlers

import (
	"errors"
	"net/http"

	"codespark/internal/models"
	"codespark/internal/service"
	"codespark/internal/validation"
)

// ArenaHandler serves coding challenges
type ArenaHandler struct {
	progress     *service.ProgressService
	maxCodeBytes int
}

// NewArenaHandler creates a new arena handler
func NewArenaHandler(progress *service.ProgressService, maxCodeBytes int) *ArenaHandler {
	return &ArenaHandler{progress: progress, maxCodeBytes: maxCodeBytes}
}

type codeRequest struct {
	Code string `json:"code"`
}

type submitResponse struct {
	Message string `json:"message"`
	*models.SubmitResult
}

// Challenges lists challenges with the learner's best results
func (h *ArenaHandler) Challenges(w http.ResponseWriter, r *http.Request) {
	session, _ := GetSessionFromContext(r.Context())

	challenges, err := h.progress.Challenges(r.Context(), session.Learner())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load challenges", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}

// Simulate scores code without recording it
func (h *ArenaHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	code, ok := h.readCode(w, r)
	if !ok {
		return
	}

	result, err := h.progress.Simulate(r.PathValue("challengeId"), code)
	if err != nil {
		respondWithLookupError(w, err, ErrChallengeNotFound, "Failed to simulate challenge")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"simulation": result})
}

// Submit scores code, records the best result and unlocks the checkpoint when the goal is met
func (h *ArenaHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, _ := GetSessionFromContext(r.Context())

	code, ok := h.readCode(w, r)
	if !ok {
		return
	}

	result, err := h.progress.Submit(r.Context(), session.Learner(), r.PathValue("challengeId"), code)
	if err != nil {
		respondWithLookupError(w, err, ErrChallengeNotFound, "Failed to submit challenge")
		return
	}

	message := MsgSubmittedKeepTrying
	if result.MeetsGoal {
		message = MsgSubmittedGoalMet
	}

	respondJSON(w, http.StatusOK, submitResponse{Message: message, SubmitResult: result})
}

// readCode decodes and validates the submitted code, writing a 400 on failure
func (h *ArenaHandler) readCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req codeRequest
	if err := decodeJSON(w, r, int64(h.maxCodeBytes+jsonEnvelopeBytes), &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusBadRequest, ErrInvalidCode+": "+validation.ErrCodeTooLarge.Error(), "", nil)
			return "", false
		}
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return "", false
	}

	if err := validation.ValidateCode(req.Code, h.maxCodeBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidCode+": "+err.Error(), "", nil)
		return "", false
	}

	return req.Code, true
}
