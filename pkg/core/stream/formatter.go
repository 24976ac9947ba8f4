package stream

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Formatter maps DAG lifecycle and LLM-chunk upstream signals onto wire
// StreamEvent frames for a single run (spec §4.6's mapping table). One
// Formatter is constructed per stream_analysis/analyze_stock request.
type Formatter struct {
	threadID string
	seq      atomic.Int64
}

// NewFormatter assigns a fresh thread_id if threadID is empty.
func NewFormatter(threadID string) *Formatter {
	if threadID == "" {
		threadID = uuid.New().String()
	}
	return &Formatter{threadID: threadID}
}

func (f *Formatter) ThreadID() string { return f.threadID }

func (f *Formatter) nextID() string {
	n := f.seq.Add(1)
	return fmt.Sprintf("%s-%d", f.threadID, n)
}

// ChainStart maps an analyst node's on_chain_start to a progress frame
// with node_status=started (spec §4.6 row 1).
func (f *Formatter) ChainStart(agent string) Event {
	return Event{
		EventType:      EventProgress,
		ThreadID:       f.threadID,
		Agent:          agent,
		ID:             f.nextID(),
		Role:           "assistant",
		NodeStatus:     NodeStarted,
		ProgressSymbol: boolPtr(true),
	}
}

// ToolStart maps a tool-start upstream signal to a progress frame (spec
// §4.6 row 2).
func (f *Formatter) ToolStart(agent, tool string) Event {
	return Event{
		EventType:      EventProgress,
		ThreadID:       f.threadID,
		Agent:          agent,
		ID:             f.nextID(),
		Role:           "assistant",
		Content:        fmt.Sprintf("tool %s executing", tool),
		ProgressSymbol: boolPtr(true),
	}
}

// ToolEnd maps a tool-end upstream signal to a progress frame, truncating
// the result content to 200 runes (spec §4.6 row 3).
func (f *Formatter) ToolEnd(agent, tool, result string) Event {
	return Event{
		EventType:      EventProgress,
		ThreadID:       f.threadID,
		Agent:          agent,
		ID:             f.nextID(),
		Role:           "assistant",
		Content:        truncateRunes(result, 200),
		ProgressSymbol: boolPtr(false),
	}
}

// MessageChunk maps an LLM text chunk verbatim (spec §4.6 row 4).
func (f *Formatter) MessageChunk(agent, content, finishReason string) Event {
	return Event{
		EventType:    EventMessageChunk,
		ThreadID:     f.threadID,
		Agent:        agent,
		ID:           f.nextID(),
		Role:         "assistant",
		Content:      content,
		FinishReason: finishReason,
	}
}

// ToolCallChunks maps an LLM tool_call_chunks chunk verbatim (spec §4.6
// row 5).
func (f *Formatter) ToolCallChunks(agent string, chunks interface{}) Event {
	return Event{
		EventType:      EventToolCallChunks,
		ThreadID:       f.threadID,
		Agent:          agent,
		ID:             f.nextID(),
		Role:           "assistant",
		ToolCallChunks: chunks,
	}
}

// ToolCalls maps a completed LLM tool_calls chunk, fixed
// finish_reason=tool_calls (spec §4.6 row 6).
func (f *Formatter) ToolCalls(agent string, calls interface{}) Event {
	return Event{
		EventType:    EventToolCalls,
		ThreadID:     f.threadID,
		Agent:        agent,
		ID:           f.nextID(),
		Role:         "assistant",
		FinishReason: "tool_calls",
		ToolCalls:    calls,
	}
}

// ChainEnd maps an analyst node's on_chain_end to the node_complete +
// analysis_result pair the spec says are "concatenated into one SSE
// frame" (spec §4.6 row 7) — the two Events returned here belong together
// in a single Writer.SendAll call so they land on the wire as one frame.
func (f *Formatter) ChainEnd(agent string, resultData interface{}) (complete, result Event) {
	complete = Event{
		EventType:  EventNodeComplete,
		ThreadID:   f.threadID,
		Agent:      agent,
		ID:         f.nextID(),
		Role:       "assistant",
		NodeStatus: NodeCompleted,
	}
	result = Event{
		EventType:  EventAnalysisResult,
		ThreadID:   f.threadID,
		Agent:      agent,
		ID:         f.nextID(),
		Role:       "assistant",
		ResultData: resultData,
	}
	return complete, result
}

// ChainError maps a node failure to a node_complete frame carrying the
// error payload (spec §4.4 "caught, reported as node_complete with an
// error payload").
func (f *Formatter) ChainError(agent string, err error) Event {
	return Event{
		EventType:  EventNodeComplete,
		ThreadID:   f.threadID,
		Agent:      agent,
		ID:         f.nextID(),
		Role:       "assistant",
		NodeStatus: NodeFailed,
		Content:    err.Error(),
	}
}

// Terminal builds the fixed terminal frame every stream ends with exactly
// one of (spec §9.2/§10 invariant 10): agent=system on success,
// agent=system_error (preceded by a content frame) on failure.
func (f *Formatter) Terminal(err error) []Event {
	if err == nil {
		return []Event{{
			EventType:    EventMessageChunk,
			ThreadID:     f.threadID,
			Agent:        SystemAgent,
			ID:           f.nextID(),
			Role:         "assistant",
			FinishReason: "stop",
		}}
	}
	return []Event{
		{
			EventType: EventMessageChunk,
			ThreadID:  f.threadID,
			Agent:     SystemErrorAgent,
			ID:        f.nextID(),
			Role:      "assistant",
			Content:   err.Error(),
		},
		{
			EventType:    EventMessageChunk,
			ThreadID:     f.threadID,
			Agent:        SystemAgent,
			ID:           f.nextID(),
			Role:         "assistant",
			FinishReason: "stop",
		},
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
