package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-portal/internal/eventlog"
)

type EventReader interface {
	Since(ctx context.Context, after int64, limit int) ([]eventlog.Event, error)
}

// GET /events?after=<seq>&limit=<n>
// Pages through bank change events oldest first; pass the last seq seen as
// after to continue.
func ListEventsHandler(ev EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var after int64
		if v := r.URL.Query().Get("after"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				http.Error(w, "bad after", http.StatusBadRequest)
				return
			}
			after = n
		}
		items, err := ev.Since(r.Context(), after, parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			respondError(w, r, err)
			return
		}
		if items == nil {
			items = []eventlog.Event{}
		}
		respondJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}
