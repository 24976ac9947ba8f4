// Package report defines the envelope schemas persisted by analyst nodes
// and read back by downstream stages: InterfaceResult, ToolResult,
// AnalystReport, DebateReport, and SupervisorReport (spec §3).
package report

import "time"

// InterfaceResult is the outcome of one fetched interface within an
// analyst node.
type InterfaceResult struct {
	Objective string   `json:"objective"`
	Summary   string   `json:"summary"`
	RawRows   []string `json:"raw_rows"`
	Status    string   `json:"status"` // "success" | "error"
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolSummaryCounts is the { total, ok, err } triple attached to every
// ToolResult.
type ToolSummaryCounts struct {
	Total int `json:"total"`
	OK    int `json:"ok"`
	Err   int `json:"err"`
}

// ToolResultData is the inner `data` object of a ToolResult.
type ToolResultData struct {
	AnalysisType    string                     `json:"analysis_type"`
	Interfaces      map[string]InterfaceResult `json:"interfaces"`
	CombinedSummary string                     `json:"combined_summary,omitempty"`
	Summary         ToolSummaryCounts          `json:"summary"`
}

// ToolResult is the envelope an analyst node writes through the Artifact
// Store for its raw+summarized acquisition output.
type ToolResult struct {
	ToolName       string         `json:"tool_name"`
	Timestamp      time.Time      `json:"timestamp"`
	AnalysisPeriod string         `json:"analysis_period"`
	Data           ToolResultData `json:"data"`
}

// NewToolResult assembles a ToolResult from a completed set of
// InterfaceResults, computing the { total, ok, err } summary counts.
func NewToolResult(toolName, analysisPeriod, analysisType string, interfaces map[string]InterfaceResult, combinedSummary string) ToolResult {
	counts := ToolSummaryCounts{}
	for _, ir := range interfaces {
		counts.Total++
		if ir.Status == StatusSuccess {
			counts.OK++
		} else {
			counts.Err++
		}
	}
	return ToolResult{
		ToolName:       toolName,
		Timestamp:      time.Now(),
		AnalysisPeriod: analysisPeriod,
		Data: ToolResultData{
			AnalysisType:    analysisType,
			Interfaces:      interfaces,
			CombinedSummary: combinedSummary,
			Summary:         counts,
		},
	}
}

// Viewpoint is the fixed three-value AnalystReport verdict.
type Viewpoint string

const (
	ViewpointBullish Viewpoint = "看多"
	ViewpointBearish Viewpoint = "看空"
	ViewpointNeutral Viewpoint = "中性"
)

// AnalystReport is the uniform five-field envelope shared by all five
// perspective analysts (spec §3).
type AnalystReport struct {
	AnalystName      string         `json:"analyst_name"`
	Viewpoint        Viewpoint      `json:"viewpoint"`
	Reason           string         `json:"reason"`
	Scores           map[string]int `json:"scores"`
	DetailedAnalysis string         `json:"detailed_analysis"`
}

// DefaultEnvelope fills missing AnalystReport fields per spec invariant
// (missing fields default to empty string / empty map), leaving any
// already-populated field untouched.
func (r *AnalystReport) DefaultEnvelope() {
	if r.Scores == nil {
		r.Scores = map[string]int{}
	}
	if r.Viewpoint == "" {
		r.Viewpoint = ViewpointNeutral
	}
}

// TruncateRunes truncates s to at most n runes without splitting a
// multi-byte (e.g. CJK) character, used everywhere a sentinel embeds raw
// LLM content (spec's "truncated to 200 chars").
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Sentinel builds the placeholder report produced on JSON parse failure:
// neutral viewpoint, raw content truncated to 200 chars (spec §4.3/§4.8).
func Sentinel(rawContent string) AnalystReport {
	truncated := TruncateRunes(rawContent, 200)
	return AnalystReport{
		AnalystName:      "分析失败",
		Viewpoint:        ViewpointNeutral,
		Reason:           "解析失败",
		Scores:           map[string]int{},
		DetailedAnalysis: "解析失败: " + truncated,
	}
}

// DebateReport is the bull/bear synthesis Supervisor internally produces
// before its forecast (supplemented feature, SPEC_FULL.md §3).
type DebateReport struct {
	AnalystName    string         `json:"analyst_name"`
	Viewpoint      Viewpoint      `json:"viewpoint"`
	CoreArguments  []string       `json:"core_arguments"`
	Rebuttals      []string       `json:"rebuttals"`
	FinalStatement string         `json:"final_statement"`
	ScoreCompare   map[string]int `json:"score_comparison,omitempty"`
}

// Horizon is one of SupervisorReport's three forecast blocks.
type Horizon struct {
	Bias       string   `json:"bias"`
	Prediction string   `json:"prediction"`
	Suggestion string   `json:"suggestion"`
	Reason     string   `json:"reason"`
	Risks      []string `json:"risks"`
}

// Forecast bundles the three horizons a SupervisorReport always carries.
type Forecast struct {
	ShortTerm Horizon `json:"short_term"`
	MidTerm   Horizon `json:"mid_term"`
	LongTerm  Horizon `json:"long_term"`
}

// SupervisorReport is the terminal multi-horizon recommendation.
type SupervisorReport struct {
	AnalystName string   `json:"analyst_name"`
	Summary     string   `json:"summary"`
	Forecast    Forecast `json:"forecast"`
}

// SentinelSupervisor mirrors Sentinel for the Supervisor's distinct shape.
func SentinelSupervisor(rawContent string) SupervisorReport {
	truncated := TruncateRunes(rawContent, 200)
	risk := []string{"解析失败: " + truncated}
	horizon := Horizon{Bias: "中性", Prediction: "数据不足", Suggestion: "观望", Reason: "解析失败", Risks: risk}
	return SupervisorReport{
		AnalystName: "分析失败",
		Summary:     "解析失败: " + truncated,
		Forecast:    Forecast{ShortTerm: horizon, MidTerm: horizon, LongTerm: horizon},
	}
}

// Required score keys per perspective (spec §4.3 table).
var (
	FundamentalScoreKeys = []string{"profitability", "solvency", "growth_potential"}
	TechnicalScoreKeys   = []string{"trend_strength", "momentum", "support_resistance", "volume_analysis", "pattern_analysis"}
	SentimentScoreKeys   = []string{"market_heat", "investor_sentiment", "institution_opinion"}
	NewsScoreKeys        = []string{"sentiment_score", "news_impact", "market_attention"}
	FundScoreKeys        = []string{"main_capital", "institution_capital", "retail_capital"}
)

// EnsureScoreKeys rebuilds scores from keys alone, defaulting any missing
// value to 0, so every persisted report exposes exactly the
// perspective-specific keys (spec invariant) — neither short of a required
// key nor carrying an extra one the LLM hallucinated.
func EnsureScoreKeys(scores map[string]int, keys []string) map[string]int {
	out := make(map[string]int, len(keys))
	for _, k := range keys {
		out[k] = scores[k]
	}
	return out
}
