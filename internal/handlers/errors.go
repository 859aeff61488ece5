package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"codespark/internal/catalog"
)

type errorResponse struct {
	Message string `json:"message"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Message: userMsg})
}

// respondWithLookupError maps a missing catalog entry to 404 and anything else to 500
func respondWithLookupError(w http.ResponseWriter, err error, notFoundMsg, logMsg string) {
	if errors.Is(err, catalog.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, notFoundMsg, "", nil)
		return
	}
	respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// decodeJSON reads a JSON body of at most limit bytes into v.
// An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
