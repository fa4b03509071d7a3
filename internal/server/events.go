package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// events streams the household change feed as server-sent events. Payloads
// carry identifiers only; clients re-read state on every event rather than
// trusting the notification contents, since delivery is at-least-once with
// no ordering guarantee across tables.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	householdID := r.PathValue("id")
	ch, cancel := s.hub.Subscribe(householdID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	slog.Debug("event stream opened", "household_id", householdID)
	for {
		select {
		case <-r.Context().Done():
			slog.Debug("event stream closed", "household_id", householdID)
			return
		case e := <-ch:
			payload, err := json.Marshal(e)
			if err != nil {
				slog.Error("failed to marshal change event", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
