package analyst

import (
	"strings"
	"testing"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/report"
)

func TestGatherInputs_MissingReportDegradesToSentinel(t *testing.T) {
	b := newStoreBase(t)
	n := NewSupervisor(b)
	req := Request{Symbol: "600519.SH", Window: acquire.CanonicalizeWindow("")}

	present := report.AnalystReport{AnalystName: "Fundamental", Viewpoint: report.ViewpointBullish, Reason: "营收增长"}
	if err := n.Store.SaveReport(req.Symbol, req.Date(), "fundamental_report", "analyst_report", req.Period(), present); err != nil {
		t.Fatalf("save fundamental_report: %v", err)
	}

	reports, newsSummary := n.gatherInputs(req)

	if reports["fundamental_report"].Reason != "营收增长" {
		t.Errorf("expected the saved fundamental_report to load verbatim, got %+v", reports["fundamental_report"])
	}
	for _, missing := range []string{"technical_report", "fund_report", "sentiment_report"} {
		if reports[missing].AnalystName != "分析失败" {
			t.Errorf("expected %s to degrade to a sentinel report, got %+v", missing, reports[missing])
		}
	}
	if newsSummary != "暂无新闻摘要" {
		t.Errorf("expected placeholder news summary when news_data is absent, got %q", newsSummary)
	}
}

func TestGatherInputs_LoadsNewsCombinedSummary(t *testing.T) {
	b := newStoreBase(t)
	n := NewSupervisor(b)
	req := Request{Symbol: "600519.SH", Window: acquire.CanonicalizeWindow("")}

	news := report.NewToolResult("news_data", req.Period(), "news", map[string]report.InterfaceResult{}, "今日要闻汇总")
	if err := n.Store.SaveToolResult(req.Symbol, req.Date(), "news_data", news); err != nil {
		t.Fatalf("save news_data: %v", err)
	}

	_, newsSummary := n.gatherInputs(req)
	if newsSummary != "今日要闻汇总" {
		t.Errorf("expected loaded news combined summary, got %q", newsSummary)
	}
}

func TestRenderReportDigest_IncludesEveryPerspectiveInOrder(t *testing.T) {
	reports := map[string]report.AnalystReport{
		"fundamental_report": {Viewpoint: report.ViewpointBullish, Reason: "R1", DetailedAnalysis: "D1"},
		"technical_report":   {Viewpoint: report.ViewpointNeutral, Reason: "R2", DetailedAnalysis: "D2"},
		"fund_report":        {Viewpoint: report.ViewpointBearish, Reason: "R3", DetailedAnalysis: "D3"},
		"sentiment_report":   {Viewpoint: report.ViewpointNeutral, Reason: "R4", DetailedAnalysis: "D4"},
	}
	digest := renderReportDigest(reports)

	fundIdx := strings.Index(digest, "fundamental_report")
	sentimentIdx := strings.Index(digest, "sentiment_report")
	if fundIdx == -1 || sentimentIdx == -1 || fundIdx > sentimentIdx {
		t.Fatalf("expected fundamental_report before sentiment_report in digest, got %q", digest)
	}
	for _, want := range []string{"R1", "D1", "R4", "D4"} {
		if !strings.Contains(digest, want) {
			t.Errorf("expected digest to contain %q, got %q", want, digest)
		}
	}
}
