package report

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAnalystReport_FencedJSON(t *testing.T) {
	raw := "```json\n{\"analyst_name\":\"Fundamental\",\"viewpoint\":\"看多\",\"reason\":\"strong growth\",\"scores\":{\"profitability\":4},\"detailed_analysis\":\"...\"}\n```"
	r := ParseAnalystReport(raw, FundamentalScoreKeys)
	if r.AnalystName != "Fundamental" || r.Viewpoint != ViewpointBullish {
		t.Fatalf("unexpected report: %+v", r)
	}
	for _, k := range FundamentalScoreKeys {
		if _, ok := r.Scores[k]; !ok {
			t.Errorf("missing required score key %s", k)
		}
	}
}

func TestParseAnalystReport_MalformedFallsBackToSentinel(t *testing.T) {
	raw := "This is not JSON at all, just prose explaining the stock is risky."
	r := ParseAnalystReport(raw, TechnicalScoreKeys)
	if r.AnalystName != "分析失败" || r.Viewpoint != ViewpointNeutral {
		t.Fatalf("expected sentinel report, got %+v", r)
	}
	if !strings.HasPrefix(r.DetailedAnalysis, "解析失败") {
		t.Fatalf("sentinel detailed_analysis should start with 解析失败:, got %q", r.DetailedAnalysis)
	}
}

func TestParseAnalystReport_MissingFieldsDefaulted(t *testing.T) {
	raw := `{"analyst_name": "Sentiment"}`
	r := ParseAnalystReport(raw, SentimentScoreKeys)
	if r.Viewpoint != ViewpointNeutral {
		t.Fatalf("missing viewpoint should default to 中性, got %q", r.Viewpoint)
	}
	if len(r.Scores) != len(SentimentScoreKeys) {
		t.Fatalf("expected exactly %d score keys, got %d", len(SentimentScoreKeys), len(r.Scores))
	}
}

func TestEnsureScoreKeys_DropsHallucinatedExtraKeys(t *testing.T) {
	got := EnsureScoreKeys(map[string]int{"profitability": 4, "made_up_key": 9}, FundamentalScoreKeys)
	if len(got) != len(FundamentalScoreKeys) {
		t.Fatalf("expected exactly %d keys, got %+v", len(FundamentalScoreKeys), got)
	}
	if _, ok := got["made_up_key"]; ok {
		t.Fatalf("expected hallucinated key to be dropped, got %+v", got)
	}
	if got["profitability"] != 4 {
		t.Fatalf("expected profitability to survive the rebuild, got %+v", got)
	}
}

func TestNewToolResult_Counts(t *testing.T) {
	interfaces := map[string]InterfaceResult{
		"a": {Status: StatusSuccess},
		"b": {Status: StatusSuccess},
		"c": {Status: StatusError},
	}
	tr := NewToolResult("fundamental_data", "20230914~20250914", "fundamental", interfaces, "")
	if tr.Data.Summary.Total != 3 || tr.Data.Summary.OK != 2 || tr.Data.Summary.Err != 1 {
		t.Fatalf("unexpected counts: %+v", tr.Data.Summary)
	}
}

func TestParseSupervisorReport_ThreeHorizons(t *testing.T) {
	raw := `{"analyst_name":"Supervisor","summary":"ok","forecast":{"short_term":{"bias":"看多","prediction":"up"},"mid_term":{"bias":"中性"},"long_term":{"bias":"看空"}}}`
	r := ParseSupervisorReport(raw)
	want := Forecast{
		ShortTerm: Horizon{Bias: "看多", Prediction: "up"},
		MidTerm:   Horizon{Bias: "中性"},
		LongTerm:  Horizon{Bias: "看空"},
	}
	if diff := cmp.Diff(want, r.Forecast); diff != "" {
		t.Fatalf("forecast mismatch (-want +got):\n%s", diff)
	}
}
