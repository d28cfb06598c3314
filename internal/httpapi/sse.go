package httpapi

import (
	"fmt"
	"net/http"
	"time"
)

// handleStream pushes the active dataset version over SSE so the page can
// re-fetch when an upload or scheduled reload swaps the data underneath it.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(version uint64) bool {
		if _, err := fmt.Fprintf(w, "data: {\"version\":%d}\n\n", version); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	last := s.svc.Version()
	if !send(last) {
		return
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if v := s.svc.Version(); v != last {
				last = v
				if !send(v) {
					return
				}
			}
		}
	}
}
