package analyst

import (
	"context"
	"encoding/json"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/prompt"
	"github.com/y437li/stockagent/pkg/core/report"
	"github.com/y437li/stockagent/pkg/core/summarize"
)

// fundamentalInterfaces is the fixed set of fundamental-facing acquisition
// kinds the Fundamental node declares (spec §4.1/§4.3; 8 interfaces, as
// exercised by scenario S2's `{total=8, ok=8, err=0}` expectation).
var fundamentalInterfaces = []interfaceSpec{
	{kind: acquire.KindFinancialIndicators, objective: "盈利能力与偿债能力指标"},
	{kind: acquire.KindDailyBasic, objective: "每日基础估值指标"},
	{kind: acquire.KindDividends, objective: "分红与股本变动"},
	{kind: acquire.KindIncome, objective: "利润表"},
	{kind: acquire.KindBalance, objective: "资产负债表"},
	{kind: acquire.KindCashflow, objective: "现金流量表"},
	{kind: acquire.KindForecasts, objective: "业绩预告"},
	{kind: acquire.KindExpress, objective: "业绩快报"},
}

// Fundamental is the DAG's fundamental-perspective node (spec §4.3).
type Fundamental struct{ *BaseAnalyst }

func NewFundamental(b *BaseAnalyst) *Fundamental { return &Fundamental{b} }

func (n *Fundamental) Name() string { return "fundamental" }

func (n *Fundamental) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	interfaces := n.runInterfaces(ctx, n.Name(), summarize.ObjectiveInsight, fundamentalInterfaces, req.Symbol, req.Window)
	combined := combinedSummary(interfaces)

	tr := report.NewToolResult("fundamental_data", req.Period(), "fundamental", interfaces, combined)
	if err := n.Store.SaveToolResult(req.Symbol, req.Date(), "fundamental_data", tr); err != nil {
		return nil, err
	}

	promptText := buildPerspectivePrompt(
		req.Symbol, req.Period(), "基本面分析师，关注盈利能力、偿债能力与成长潜力",
		"基本面数据摘要", combined, report.FundamentalScoreKeys, "基本面分析师",
	)
	raw := n.callLLM("fundamental_analyst", promptText, prompt.AnalystSystemPrompt("analyst.fundamental"))
	rep := report.ParseAnalystReport(raw, report.FundamentalScoreKeys)

	if err := n.Store.SaveReport(req.Symbol, req.Date(), "fundamental_report", "analyst_report", req.Period(), rep); err != nil {
		return nil, err
	}
	return json.Marshal(rep)
}
