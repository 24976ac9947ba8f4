package summarize

import (
	"context"
	"testing"

	"github.com/y437li/stockagent/pkg/core/types"
)

type stubProvider struct {
	response string
	err      error
	calls    int
}

func (p *stubProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	p.calls++
	return p.response, p.err
}
func (p *stubProvider) AdaptInstructions(raw string) string { return raw }

func sampleTable() types.Table {
	return types.Table{
		Columns: []string{"trade_date", "close", "irrelevant"},
		Rows: []types.Row{
			{types.StringCell("20250914"), types.FloatCell(12.3), types.StringCell("noise")},
		},
	}
}

func TestSelectColumns_DiscardsHallucinatedColumns(t *testing.T) {
	p := &stubProvider{response: `["trade_date", "close", "made_up_column"]`}
	e := NewEngine(p)
	cols := e.SelectColumns(context.Background(), "price trend", sampleTable())
	if len(cols) != 2 || cols[0] != "trade_date" || cols[1] != "close" {
		t.Fatalf("SelectColumns = %v, want [trade_date close]", cols)
	}
}

func TestSelectColumns_LLMFailureKeepsAllColumns(t *testing.T) {
	p := &stubProvider{err: context.DeadlineExceeded}
	e := NewEngine(p)
	cols := e.SelectColumns(context.Background(), "price trend", sampleTable())
	if len(cols) != 3 {
		t.Fatalf("SelectColumns on failure = %v, want all 3 columns kept", cols)
	}
}

func TestSummarize_EmptySelectionReturnsSentinel(t *testing.T) {
	p := &stubProvider{response: `[]`}
	e := NewEngine(p)
	empty := types.Table{Columns: []string{"a"}, Rows: nil}
	got := e.Summarize(context.Background(), ObjectiveInsight, "test", empty)
	if got != "未匹配到相关数据列" {
		t.Fatalf("Summarize on empty table = %q", got)
	}
}

func TestSummarizeCorpus_EmptyItemsSentinel(t *testing.T) {
	p := &stubProvider{response: "ok"}
	e := NewEngine(p)
	got := e.SummarizeCorpus(context.Background(), DefaultBudgetConfig(), "news", nil)
	if got != "未匹配到相关数据列" {
		t.Fatalf("SummarizeCorpus(empty) = %q", got)
	}
}

func TestSummarizeCorpus_MultiBatchConcatenation(t *testing.T) {
	p := &stubProvider{response: "batch-summary"}
	e := NewEngine(p)
	cfg := BudgetConfig{ModelMaxTokens: 16000, InputRatio: 0.55, PromptTokens: 1200, OutputTokens: 1500}
	items := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, "item content padding to force multiple batches xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx")
	}
	got := e.SummarizeCorpus(context.Background(), cfg, "news", items)
	if p.calls < 1 {
		t.Fatal("expected at least one LLM call")
	}
	if got == "" {
		t.Fatal("expected non-empty concatenated summary")
	}
}
