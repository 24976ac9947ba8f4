package analyst

import (
	"context"
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/prompt"
	"github.com/y437li/stockagent/pkg/core/report"
	"github.com/y437li/stockagent/pkg/core/summarize"
	"github.com/y437li/stockagent/pkg/core/types"
)

// fundInterfaces is the fixed set of fund-flow-facing acquisition kinds
// the Fund node declares (spec §4.1/§4.3).
var fundInterfaces = []interfaceSpec{
	{kind: acquire.KindTop10Holders, objective: "十大股东持股"},
	{kind: acquire.KindFloatHolders, objective: "十大流通股东持股"},
	{kind: acquire.KindHolderCount, objective: "股东户数"},
	{kind: acquire.KindMoneyFlowStock, objective: "个股资金流向"},
	{kind: acquire.KindMoneyFlowSector, objective: "板块资金流向"},
	{kind: acquire.KindMoneyFlowIndus, objective: "行业资金流向"},
	{kind: acquire.KindMoneyFlowMarket, objective: "大盘资金流向"},
	{kind: acquire.KindNorthbound, objective: "北向资金流向"},
	{kind: acquire.KindDragonTopList, objective: "龙虎榜营业部"},
	{kind: acquire.KindDragonTopInst, objective: "龙虎榜机构"},
	{kind: acquire.KindChipDistrib, objective: "筹码分布"},
}

// Fund is the DAG's fund-flow-perspective node (spec §4.3). When saving
// its ToolResult fails, or Run panics, it falls back to a default neutral
// report, transcribed from
// original_source/graph/nodes/analysis_nodes.py::run_fund_analysis's
// try/except default-report path.
type Fund struct{ *BaseAnalyst }

func NewFund(b *BaseAnalyst) *Fund { return &Fund{b} }

func (n *Fund) Name() string { return "fund" }

func (n *Fund) Run(ctx context.Context, req Request) (out json.RawMessage, err error) {
	defer func() {
		// mirrors the reference implementation's node-level exception guard:
		// a panic on this goroutine becomes the default report. Panics inside
		// the fan-out's own worker goroutines are not recovered here.
		if r := recover(); r != nil {
			out, err = defaultFundReport(n, req, fmt.Sprintf("资金面分析异常: %v", r))
		}
	}()

	interfaces := n.runInterfaces(ctx, n.Name(), summarize.ObjectiveFundFlow, fundInterfaces, req.Symbol, req.Window)
	combined := combinedSummary(interfaces)

	statsNote := northboundStatsNote(n.Registry, ctx, req)
	if statsNote != "" {
		combined = combined + "\n\n" + statsNote
	}

	tr := report.NewToolResult("fund_data", req.Period(), "fund", interfaces, combined)
	if err := n.Store.SaveToolResult(req.Symbol, req.Date(), "fund_data", tr); err != nil {
		return defaultFundReport(n, req, fmt.Sprintf("资金面数据保存失败: %v", err))
	}

	promptText := buildPerspectivePrompt(
		req.Symbol, req.Period(), "资金面分析师，关注主力资金、机构资金与散户资金的力量对比",
		"资金面数据摘要", combined, report.FundScoreKeys, "资金面分析师",
	)
	raw := n.callLLM("fund_analyst", promptText, prompt.AnalystSystemPrompt("analyst.fund"))
	rep := report.ParseAnalystReport(raw, report.FundScoreKeys)

	if err := n.Store.SaveReport(req.Symbol, req.Date(), "fund_report", "analyst_report", req.Period(), rep); err != nil {
		return nil, err
	}
	return json.Marshal(rep)
}

// defaultFundReport is the perspective-specific fallback Fund returns
// instead of propagating an error, matching the reference implementation's
// exception handler exactly (neutral viewpoint, zeroed scores, diagnostic
// reason).
func defaultFundReport(n *Fund, req Request, reason string) (json.RawMessage, error) {
	rep := report.AnalystReport{
		AnalystName:      "资金流向分析师",
		Viewpoint:        report.ViewpointNeutral,
		Reason:           reason,
		Scores:           map[string]int{"main_capital": 0, "institution_capital": 0, "retail_capital": 0},
		DetailedAnalysis: reason,
	}
	_ = n.Store.SaveReport(req.Symbol, req.Date(), "fund_report", "analyst_report", req.Period(), rep)
	return json.Marshal(rep)
}

// northboundStatsNote computes mean/stddev over the northbound net-buy
// series via gonum, a supplementary descriptive-statistics signal
// alongside the LLM-produced fund-flow summaries (DESIGN.md ambient-stack
// note).
func northboundStatsNote(reg *acquire.Registry, ctx context.Context, req Request) string {
	table, err := reg.Fetch(ctx, acquire.KindNorthbound, req.Symbol, req.Window)
	if err != nil || len(table.Rows) < 2 {
		return ""
	}
	idx := table.ColumnIndex()
	ci, ok := idx["net_buy"]
	if !ok {
		return ""
	}
	series := make([]float64, 0, len(table.Rows))
	for _, row := range table.Rows {
		c := row[ci]
		if c.Type == types.CellFloat {
			series = append(series, c.F)
		} else if c.Type == types.CellInt {
			series = append(series, float64(c.I))
		}
	}
	if len(series) < 2 {
		return ""
	}
	mean, std := stat.MeanStdDev(series, nil)
	return fmt.Sprintf("北向资金净买入统计: 均值=%.2f 标准差=%.2f 样本数=%d", mean, std, len(series))
}
