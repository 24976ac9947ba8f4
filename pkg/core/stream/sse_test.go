package stream

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestSendAllConcatenatesIntoOneFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	f := NewFormatter("t1")
	complete, result := f.ChainEnd("fundamental", map[string]string{"viewpoint": "bullish"})
	if err := sw.SendAll(complete, result); err != nil {
		t.Fatalf("send all: %v", err)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "\n\n"); n != 1 {
		t.Fatalf("expected exactly one blank-line frame terminator, got %d in %q", n, body)
	}
	if n := strings.Count(body, "data: "); n != 2 {
		t.Fatalf("expected two data lines within the one frame, got %d in %q", n, body)
	}
	if !strings.HasSuffix(body, "\n\n") {
		t.Fatalf("expected frame to end with a blank line, got %q", body)
	}
}

func TestConcurrentSendsProduceWellFormedFrames(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	f := NewFormatter("t1")

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			sw.Send(f.ChainStart("node"))
			sw.Heartbeat()
			complete, result := f.ChainEnd("node", nil)
			sw.SendAll(complete, result)
		}(i)
	}
	wg.Wait()

	body := rec.Body.String()
	for _, frame := range strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n") {
		if frame == "" {
			continue
		}
		for _, line := range strings.Split(frame, "\n") {
			if line != "" && !strings.HasPrefix(line, "data: ") && !strings.HasPrefix(line, ": ") {
				t.Fatalf("interleaved/torn frame line: %q in frame %q", line, frame)
			}
		}
	}
}

func TestSendIsSingleEventFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	sw, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	f := NewFormatter("t1")
	if err := sw.Send(f.ChainStart("technical")); err != nil {
		t.Fatalf("send: %v", err)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "data: "); n != 1 {
		t.Fatalf("expected a single data line, got %d in %q", n, body)
	}
	if !strings.HasSuffix(body, "\n\n") {
		t.Fatalf("expected frame to end with a blank line, got %q", body)
	}
}
