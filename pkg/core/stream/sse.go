package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// Writer wraps an http.ResponseWriter with the SSE framing and flush
// discipline pkg/api/debate/handlers.go established (sendSSE/sendSSEEvent),
// generalized to the Event type instead of a debate-specific message. The
// event stream is single-producer in principle (spec §5, §8), but node
// goroutines (chain-start/tool/chain-end) and the handler's heartbeat
// ticker and terminal frames all hold a reference to the same Writer, so
// mu serializes every Write+Flush pair against the underlying
// ResponseWriter.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	mu      sync.Mutex
}

// NewWriter sets the SSE response headers and returns a Writer, or an
// error if the underlying ResponseWriter can't flush.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("stream: response writer does not support flushing")
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one Event as a `data: <json>\n\n` frame (spec §9.2).
func (sw *Writer) Send(ev Event) error {
	return sw.SendAll(ev)
}

// SendAll writes one or more Events concatenated into a single SSE frame:
// one `data: <json>` line per event, followed by exactly one blank line
// terminating the frame. Per the SSE wire format a multi-line data field is
// delivered to the client as one event, so a reader splits the payload on
// "\n" and decodes each line as its own JSON object.
func (sw *Writer) SendAll(evs ...Event) error {
	var buf bytes.Buffer
	for _, ev := range evs {
		body, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		buf.WriteString("data: ")
		buf.Write(body)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if _, err := sw.w.Write(buf.Bytes()); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

// Heartbeat writes a bare SSE comment line to keep idle connections alive
// (grounded on pkg/api/debate/handlers.go's 15s heartbeat ticker).
func (sw *Writer) Heartbeat() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	fmt.Fprintf(sw.w, ": heartbeat\n\n")
	sw.flusher.Flush()
}
