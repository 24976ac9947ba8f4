package stream

import "testing"

func TestChainStartProgressSymbol(t *testing.T) {
	f := NewFormatter("t1")
	ev := f.ChainStart("fundamental")
	if ev.EventType != EventProgress || ev.NodeStatus != NodeStarted {
		t.Fatalf("unexpected chain-start event: %+v", ev)
	}
	if ev.ProgressSymbol == nil || !*ev.ProgressSymbol {
		t.Fatalf("expected progress_symbol=true, got %+v", ev.ProgressSymbol)
	}
}

func TestToolEndTruncatesContent(t *testing.T) {
	f := NewFormatter("t1")
	long := make([]rune, 500)
	for i := range long {
		long[i] = '字'
	}
	ev := f.ToolEnd("fundamental", "fetch", string(long))
	if len([]rune(ev.Content)) != 200 {
		t.Fatalf("expected content truncated to 200 runes, got %d", len([]rune(ev.Content)))
	}
	if ev.ProgressSymbol == nil || *ev.ProgressSymbol {
		t.Fatalf("expected progress_symbol=false on tool-end")
	}
}

func TestTerminalSuccessIsSingleFrame(t *testing.T) {
	f := NewFormatter("t1")
	frames := f.Terminal(nil)
	if len(frames) != 1 || frames[0].Agent != SystemAgent || frames[0].FinishReason != "stop" {
		t.Fatalf("unexpected success terminal frames: %+v", frames)
	}
}

func TestTerminalErrorPrecedesStop(t *testing.T) {
	f := NewFormatter("t1")
	frames := f.Terminal(errTest{})
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Agent != SystemErrorAgent {
		t.Fatalf("expected first frame agent=system_error, got %s", frames[0].Agent)
	}
	if frames[1].Agent != SystemAgent || frames[1].FinishReason != "stop" {
		t.Fatalf("expected terminal stop frame, got %+v", frames[1])
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }
