package store

import (
	"sort"
	"testing"

	"github.com/y437li/stockagent/pkg/core/report"
)

func TestArtifactStore_ToolResultRoundTrip(t *testing.T) {
	s := NewArtifactStore(t.TempDir())

	interfaces := map[string]report.InterfaceResult{
		"financial_indicators": {Objective: "profitability", Summary: "ROE steady", Status: report.StatusSuccess},
	}
	tr := report.NewToolResult("fundamental_data", "20230914~20250914", "fundamental", interfaces, "combined")

	if err := s.SaveToolResult("600519", "20250914", "fundamental_data", tr); err != nil {
		t.Fatalf("SaveToolResult: %v", err)
	}

	got, ok := s.LoadToolResult("600519", "20250914", "fundamental_data")
	if !ok {
		t.Fatal("LoadToolResult: expected artifact to be present")
	}
	if got.Data.AnalysisType != "fundamental" || got.Data.Summary.Total != 1 || got.Data.Summary.OK != 1 {
		t.Fatalf("unexpected round-tripped tool result: %+v", got)
	}
}

func TestArtifactStore_LoadToolResult_AbsentDegrades(t *testing.T) {
	s := NewArtifactStore(t.TempDir())

	_, ok := s.LoadToolResult("600519", "20250914", "fundamental_data")
	if ok {
		t.Fatal("expected LoadToolResult to report absent artifact as (nil, false)")
	}
}

func TestArtifactStore_ReportRoundTrip(t *testing.T) {
	s := NewArtifactStore(t.TempDir())

	rep := report.AnalystReport{
		AnalystName:      "Fundamental",
		Viewpoint:        report.ViewpointBullish,
		Reason:           "strong growth",
		Scores:           map[string]int{"profitability": 4},
		DetailedAnalysis: "...",
	}
	if err := s.SaveReport("600519", "20250914", "fundamental_report", "fundamental", "20230914~20250914", rep); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	var got report.AnalystReport
	if !s.LoadReport("600519", "20250914", "fundamental_report", &got) {
		t.Fatal("LoadReport: expected artifact to be present")
	}
	if got.AnalystName != "Fundamental" || got.Scores["profitability"] != 4 {
		t.Fatalf("unexpected round-tripped report: %+v", got)
	}
}

func TestArtifactStore_Exists(t *testing.T) {
	s := NewArtifactStore(t.TempDir())
	if s.Exists("600519", "20250914", "fundamental_data") {
		t.Fatal("Exists should be false before any write")
	}
	if err := s.SaveRaw("600519", "20250914", "analysis_summary", map[string]string{"symbol": "600519"}); err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}
	if !s.Exists("600519", "20250914", "analysis_summary") {
		t.Fatal("Exists should be true after write")
	}
}

// TestArtifactStore_ArtifactDeterminism exercises the testable property that
// a full pipeline run for one symbol/date produces exactly the fixed set of
// artifact names, regardless of write order or retries.
func TestArtifactStore_ArtifactDeterminism(t *testing.T) {
	s := NewArtifactStore(t.TempDir())
	symbol, date := "600519", "20250914"

	dataNames := []string{"fundamental_data", "tech_data", "fund_data", "news_data"}
	for _, n := range dataNames {
		tr := report.NewToolResult(n, "20230914~20250914", "x", nil, "")
		if err := s.SaveToolResult(symbol, date, n, tr); err != nil {
			t.Fatalf("SaveToolResult(%s): %v", n, err)
		}
	}

	reportNames := []string{"fundamental_report", "technical_report", "fund_report", "news_report", "sentiment_report", "supervisor_report"}
	for _, n := range reportNames {
		if err := s.SaveReport(symbol, date, n, "x", "20230914~20250914", report.Sentinel("")); err != nil {
			t.Fatalf("SaveReport(%s): %v", n, err)
		}
	}

	rawNames := []string{"sentiment_input", "analysis_summary"}
	for _, n := range rawNames {
		if err := s.SaveRaw(symbol, date, n, map[string]string{"x": "y"}); err != nil {
			t.Fatalf("SaveRaw(%s): %v", n, err)
		}
	}

	// Retry/overwrite one name to confirm last-write-wins doesn't change the
	// produced filename set.
	tr := report.NewToolResult("fundamental_data", "20230914~20250914", "x", nil, "retried")
	if err := s.SaveToolResult(symbol, date, "fundamental_data", tr); err != nil {
		t.Fatalf("retry SaveToolResult: %v", err)
	}

	got, err := s.ListArtifacts(symbol, date)
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}

	want := append(append(append([]string{}, dataNames...), reportNames...), rawNames...)
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("ListArtifacts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListArtifacts = %v, want %v", got, want)
		}
	}
}

func TestArtifactStore_ListArtifacts_MissingDir(t *testing.T) {
	s := NewArtifactStore(t.TempDir())
	names, err := s.ListArtifacts("000001", "20250914")
	if err != nil {
		t.Fatalf("ListArtifacts on missing dir should not error: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no artifacts, got %v", names)
	}
}
