package analyst

import (
	"strings"
	"testing"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/report"
	"github.com/y437li/stockagent/pkg/core/store"
)

func newStoreBase(t *testing.T) *BaseAnalyst {
	return &BaseAnalyst{Store: store.NewArtifactStore(t.TempDir())}
}

func TestSentimentInput_PrefersNewsAndFundamentalToolResults(t *testing.T) {
	b := newStoreBase(t)
	n := NewSentiment(b)
	req := Request{Symbol: "600519.SH", Window: acquire.CanonicalizeWindow("")}

	news := report.NewToolResult("news_data", req.Period(), "news", map[string]report.InterfaceResult{}, "新闻摘要正文")
	if err := n.Store.SaveToolResult(req.Symbol, req.Date(), "news_data", news); err != nil {
		t.Fatalf("save news_data: %v", err)
	}
	fundamental := report.NewToolResult("fundamental_data", req.Period(), "fundamental", map[string]report.InterfaceResult{
		"income_statement": {Objective: "利润表", Summary: "营收增长", Status: report.StatusSuccess},
	}, "")
	if err := n.Store.SaveToolResult(req.Symbol, req.Date(), "fundamental_data", fundamental); err != nil {
		t.Fatalf("save fundamental_data: %v", err)
	}

	input := n.sentimentInput(req)
	if !strings.Contains(input, "新闻摘要正文") {
		t.Errorf("expected news summary in input, got %q", input)
	}
	if !strings.Contains(input, "营收增长") {
		t.Errorf("expected fundamental interface summary in input, got %q", input)
	}
}

func TestSentimentInput_FallsBackToFundamentalReport(t *testing.T) {
	b := newStoreBase(t)
	n := NewSentiment(b)
	req := Request{Symbol: "600519.SH", Window: acquire.CanonicalizeWindow("")}

	fr := report.AnalystReport{Reason: "增长放缓", DetailedAnalysis: "季度收入不及预期"}
	if err := n.Store.SaveReport(req.Symbol, req.Date(), "fundamental_report", "analyst_report", req.Period(), fr); err != nil {
		t.Fatalf("save fundamental_report: %v", err)
	}

	input := n.sentimentInput(req)
	if !strings.Contains(input, "增长放缓") || !strings.Contains(input, "季度收入不及预期") {
		t.Errorf("expected fallback to fundamental report text, got %q", input)
	}
}

func TestSentimentInput_NothingAvailableReturnsPlaceholder(t *testing.T) {
	b := newStoreBase(t)
	n := NewSentiment(b)
	req := Request{Symbol: "600519.SH", Window: acquire.CanonicalizeWindow("")}

	input := n.sentimentInput(req)
	if input != "暂无可用的新闻或基本面数据用于情绪分析" {
		t.Errorf("expected placeholder sentence, got %q", input)
	}
}
