package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rpggio/projectboard/internal/domain/project"
)

const eventBuffer = 16

// Board is the snapshot source streamed by /events.
type Board interface {
	Snapshot() project.Snapshot
	SubscribeChan(size int) (<-chan project.Snapshot, *project.Subscription)
}

// handleEvents streams board snapshots as server-sent events. The current
// board is sent first with event type "snapshot"; every later change is sent
// with its change kind as the event type and its tick as the event id.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Subscribe before reading the current board so no change is missed.
	updates, sub := s.board.SubscribeChan(eventBuffer)
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	current := s.board.Snapshot()
	if err := writeSnapshotEvent(w, current); err != nil {
		return
	}
	flusher.Flush()
	last := current.Tick

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case snap := <-updates:
			if snap.Tick <= last {
				continue
			}
			last = snap.Tick
			if err := writeSnapshotEvent(w, snap); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeSnapshotEvent(w http.ResponseWriter, snap project.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	event := "snapshot"
	if snap.Change.Kind != "" {
		event = string(snap.Change.Kind)
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", snap.Tick, event, data)
	return err
}
