package report

import (
	"strings"

	"github.com/y437li/stockagent/pkg/core/utils"
)

// ExtractFencedJSON strips a ```json ... ``` (or bare ```) fence around an
// LLM response, matching the parsing-is-lenient contract of spec §4.3 step
// 5 ("Parses the LLM response as JSON wrapped in a fenced block").
func ExtractFencedJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "\n")
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return s
}

// ParseAnalystReport parses an LLM response into an AnalystReport, trying
// the fenced-block extraction then the SmartParse repair cascade (standard
// JSON, json-repair, then Hjson). On total failure it returns the sentinel
// report so the DAG always completes (spec §4.8 ReportParseFailed).
func ParseAnalystReport(raw string, scoreKeys []string) AnalystReport {
	candidate := ExtractFencedJSON(raw)

	var r AnalystReport
	if _, err := utils.SmartParse(candidate, &r); err != nil {
		return Sentinel(raw)
	}
	r.DefaultEnvelope()
	r.Scores = EnsureScoreKeys(r.Scores, scoreKeys)
	return r
}

// ParseSupervisorReport mirrors ParseAnalystReport for the Supervisor's
// distinct envelope shape.
func ParseSupervisorReport(raw string) SupervisorReport {
	candidate := ExtractFencedJSON(raw)

	var r SupervisorReport
	if _, err := utils.SmartParse(candidate, &r); err != nil {
		return SentinelSupervisor(raw)
	}
	if r.AnalystName == "" {
		r.AnalystName = "Supervisor"
	}
	return r
}

// ParseDebateReport mirrors ParseAnalystReport for the internal bull/bear
// synthesis pass the Supervisor runs (supplemented feature).
func ParseDebateReport(raw string) DebateReport {
	candidate := ExtractFencedJSON(raw)

	var r DebateReport
	if _, err := utils.SmartParse(candidate, &r); err != nil {
		truncated := TruncateRunes(raw, 200)
		return DebateReport{
			AnalystName:    "分析失败",
			Viewpoint:      ViewpointNeutral,
			FinalStatement: "解析失败: " + truncated,
		}
	}
	if r.Viewpoint == "" {
		r.Viewpoint = ViewpointNeutral
	}
	return r
}
