package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-portal/internal/attempts"
	"github.com/mind-engage/mindengage-portal/internal/portal"
	"github.com/mind-engage/mindengage-portal/internal/qti"
	"github.com/mind-engage/mindengage-portal/internal/quizbank"
	"github.com/mind-engage/mindengage-portal/internal/storage"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps domain errors onto status codes. Anything unexpected is
// logged and reported as a bare 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *quizbank.ValidationError
	switch {
	case errors.Is(err, portal.ErrContentUnavailable):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, attempts.ErrNoAttempt):
		http.Error(w, "no open attempt", http.StatusNotFound)
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid bank", "problems": verr.Problems})
	case errors.Is(err, storage.ErrBadKey):
		http.Error(w, "invalid course id", http.StatusBadRequest)
	case errors.Is(err, qti.ErrNotChoice), errors.Is(err, qti.ErrNoCorrectValue), errors.Is(err, qti.ErrNoManifest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

var errFileRequired = errors.New("file required")

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
