package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrStreamingUnsupported = errors.New("streaming not supported")

// Stream writes Server-Sent Events to a response.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	id      uint64
}

// NewStream sets the event-stream headers and flushes them. It fails when
// the ResponseWriter cannot flush.
func NewStream(w http.ResponseWriter) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Stream{w: w, flusher: flusher}, nil
}

// Send writes one event with a JSON payload. A write error means the
// client has gone away.
func (s *Stream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}

	s.id++
	if _, err := fmt.Fprintf(s.w, "event: %s\nid: %d\ndata: %s\n\n", event, s.id, payload); err != nil {
		return fmt.Errorf("write %s event: %w", event, err)
	}

	s.flusher.Flush()
	return nil
}
