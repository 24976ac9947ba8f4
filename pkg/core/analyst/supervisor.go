package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/y437li/stockagent/pkg/core/prompt"
	"github.com/y437li/stockagent/pkg/core/report"
)

// perspectiveReportNames is the fixed set of four analyst reports the
// Supervisor's own reasoning pass consumes. News's contribution is its
// combined_summary, not its analyst report, matching
// original_source/graph/nodes/analysis_nodes.py::run_supervisor exactly.
var perspectiveReportNames = []string{"fundamental_report", "technical_report", "fund_report", "sentiment_report"}

// Supervisor is the DAG's terminal node (spec §4.3). It closes the fan-in
// over the four perspective reports plus the News combined summary,
// produces the three-horizon recommendation, and — as a supplementary
// step alongside its main output — runs an internal bull/bear/synthesis
// debate pass and persists it as a separate artifact.
type Supervisor struct{ *BaseAnalyst }

func NewSupervisor(b *BaseAnalyst) *Supervisor { return &Supervisor{b} }

func (n *Supervisor) Name() string { return "supervisor" }

func (n *Supervisor) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	reports, newsSummary := n.gatherInputs(req)
	digest := renderReportDigest(reports)

	synthesis := n.runDebate(ctx, req, reports)

	promptText := fmt.Sprintf(
		"股票代码: %s\n分析时间段: %s\n\n各分析师报告:\n%s\n\n新闻摘要:\n%s\n\n多空辩论综合观点: %s\n综合理由: %s\n%s",
		req.Symbol, req.Period(), digest, newsSummary, synthesis.Viewpoint, synthesis.FinalStatement, supervisorReportFormat,
	)
	raw := n.callLLM("supervisor", promptText, prompt.AnalystSystemPrompt("analyst.supervisor"))
	rep := report.ParseSupervisorReport(raw)

	if err := n.Store.SaveReport(req.Symbol, req.Date(), "supervisor_report", "supervisor_report", req.Period(), rep); err != nil {
		return nil, err
	}
	return json.Marshal(rep)
}

// gatherInputs reads the four perspective reports and the News combined
// summary back from the Artifact Store (spec §4.4's dependency rule).
// A missing report degrades to the sentinel report rather than blocking
// the Supervisor's own run.
func (n *Supervisor) gatherInputs(req Request) (map[string]report.AnalystReport, string) {
	reports := make(map[string]report.AnalystReport, len(perspectiveReportNames))
	for _, name := range perspectiveReportNames {
		var rep report.AnalystReport
		if !n.Store.LoadReport(req.Symbol, req.Date(), name, &rep) {
			rep = report.Sentinel(name + " 缺失")
		}
		reports[name] = rep
	}

	newsSummary := "暂无新闻摘要"
	if news, ok := n.Store.LoadToolResult(req.Symbol, req.Date(), "news_data"); ok {
		newsSummary = news.Data.CombinedSummary
	}
	return reports, newsSummary
}

func renderReportDigest(reports map[string]report.AnalystReport) string {
	var b strings.Builder
	for _, name := range perspectiveReportNames {
		rep := reports[name]
		fmt.Fprintf(&b, "【%s】观点: %s / 依据: %s / 详细: %s\n\n", name, rep.Viewpoint, rep.Reason, rep.DetailedAnalysis)
	}
	return b.String()
}

// runDebate produces the supplementary bull/bear/synthesis artifact
// (SPEC_FULL.md §3), grounded on run_bull_debate/run_bear_debate/
// run_debate_analyst. It returns the synthesis report so the caller can
// fold its viewpoint/final statement into the forecast prompt; persistence
// failure is swallowed since this is a supplementary side artifact, not a
// DAG-blocking dependency.
func (n *Supervisor) runDebate(ctx context.Context, req Request, reports map[string]report.AnalystReport) report.DebateReport {
	digest := renderReportDigest(reports)

	bullPrompt := fmt.Sprintf("股票代码: %s\n分析时间段: %s\n\n各分析师报告:\n%s\n%s", req.Symbol, req.Period(), digest, debateReportFormat)
	bullRaw := n.callLLM("debate_bull", bullPrompt, prompt.AnalystSystemPrompt("analyst.debate_bull"))
	bull := report.ParseDebateReport(bullRaw)

	bearPrompt := fmt.Sprintf("股票代码: %s\n分析时间段: %s\n\n各分析师报告:\n%s\n%s", req.Symbol, req.Period(), digest, debateReportFormat)
	bearRaw := n.callLLM("debate_bear", bearPrompt, prompt.AnalystSystemPrompt("analyst.debate_bear"))
	bear := report.ParseDebateReport(bearRaw)

	synthesisPrompt := fmt.Sprintf(
		"股票代码: %s\n分析时间段: %s\n\n多方观点: %s\n核心论据: %s\n\n空方观点: %s\n核心论据: %s\n%s",
		req.Symbol, req.Period(), bull.Viewpoint, strings.Join(bull.CoreArguments, "; "),
		bear.Viewpoint, strings.Join(bear.CoreArguments, "; "), debateReportFormat,
	)
	synthesisRaw := n.callLLM("debate_synthesis", synthesisPrompt, prompt.AnalystSystemPrompt("analyst.debate_synthesis"))
	synthesis := report.ParseDebateReport(synthesisRaw)

	_ = n.Store.SaveRaw(req.Symbol, req.Date(), "debate_report", map[string]report.DebateReport{
		"bull": bull, "bear": bear, "synthesis": synthesis,
	})
	return synthesis
}
