// Package stream formats DAG lifecycle and LLM-chunk upstream events into
// the wire-level StreamEvent frames the streaming HTTP surface emits, and
// writes them as Server-Sent Events (spec §3, §4.6, §9.2). Grounded on
// pkg/api/debate/handlers.go's SSE helpers and pkg/core/debate's message
// shapes, generalized from one fixed debate-message type to the five
// StreamEvent kinds this pipeline produces.
package stream

// EventType enumerates the StreamEvent.event_type values (spec §3).
type EventType string

const (
	EventMessageChunk    EventType = "message_chunk"
	EventToolCalls       EventType = "tool_calls"
	EventToolCallChunks  EventType = "tool_call_chunks"
	EventProgress        EventType = "progress"
	EventNodeComplete    EventType = "node_complete"
	EventAnalysisResult  EventType = "analysis_result"
)

// NodeStatus is the node_status value carried by progress/node_complete
// frames.
type NodeStatus string

const (
	NodeStarted   NodeStatus = "started"
	NodeCompleted NodeStatus = "completed"
	NodeFailed    NodeStatus = "failed"
)

// SystemAgent and SystemErrorAgent are the two fixed `agent` values the
// terminal frame carries (spec §9.2).
const (
	SystemAgent      = "system"
	SystemErrorAgent = "system_error"
)

// Event is the wire-level StreamEvent frame (spec §3).
type Event struct {
	EventType        EventType   `json:"event_type"`
	ThreadID         string      `json:"thread_id"`
	Agent            string      `json:"agent"`
	ID               string      `json:"id"`
	Role             string      `json:"role"`
	Content          string      `json:"content,omitempty"`
	FinishReason     string      `json:"finish_reason,omitempty"`
	ProgressSymbol   *bool       `json:"progress_symbol,omitempty"`
	ToolCalls        interface{} `json:"tool_calls,omitempty"`
	ToolCallChunks   interface{} `json:"tool_call_chunks,omitempty"`
	NodeStatus       NodeStatus  `json:"node_status,omitempty"`
	ResultData       interface{} `json:"result_data,omitempty"`
}

func boolPtr(b bool) *bool { return &b }
