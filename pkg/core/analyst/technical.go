package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/markcheno/go-talib"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/prompt"
	"github.com/y437li/stockagent/pkg/core/report"
	"github.com/y437li/stockagent/pkg/core/summarize"
	"github.com/y437li/stockagent/pkg/core/types"
)

// technicalInterfaces is the fixed set of technical-facing acquisition
// kinds the Technical node declares (spec §4.1/§4.3).
var technicalInterfaces = []interfaceSpec{
	{kind: acquire.KindKlineDaily, objective: "日K线价格走势"},
	{kind: acquire.KindKlineWeekly, objective: "周K线价格走势"},
	{kind: acquire.KindKlineMonthly, objective: "月K线价格走势"},
	{kind: acquire.KindFactorIndicator, objective: "技术因子指标"},
	{kind: acquire.KindDailyBasicEx, objective: "增强版每日基础指标"},
	{kind: acquire.KindLimitUpList, objective: "涨停板名单"},
}

// Technical is the DAG's technical-perspective node (spec §4.3).
type Technical struct{ *BaseAnalyst }

func NewTechnical(b *BaseAnalyst) *Technical { return &Technical{b} }

func (n *Technical) Name() string { return "technical" }

func (n *Technical) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	interfaces := n.runInterfaces(ctx, n.Name(), summarize.ObjectiveTechnical, technicalInterfaces, req.Symbol, req.Window)
	combined := combinedSummary(interfaces)

	indicatorNote := technicalIndicatorNote(n.Registry, ctx, req)
	if indicatorNote != "" {
		combined = combined + "\n\n" + indicatorNote
	}

	tr := report.NewToolResult("tech_data", req.Period(), "technical", interfaces, combined)
	if err := n.Store.SaveToolResult(req.Symbol, req.Date(), "tech_data", tr); err != nil {
		return nil, err
	}

	promptText := buildPerspectivePrompt(
		req.Symbol, req.Period(), "技术面分析师，关注趋势强度、动量、支撑阻力、成交量与形态",
		"技术面数据摘要", combined, report.TechnicalScoreKeys, "技术面分析师",
	)
	raw := n.callLLM("technical_analyst", promptText, prompt.AnalystSystemPrompt("analyst.technical"))
	rep := report.ParseAnalystReport(raw, report.TechnicalScoreKeys)

	if err := n.Store.SaveReport(req.Symbol, req.Date(), "technical_report", "analyst_report", req.Period(), rep); err != nil {
		return nil, err
	}
	return json.Marshal(rep)
}

// technicalIndicatorNote computes RSI/MACD/Bollinger bands server-side
// over the daily k-line Table via go-talib, rather than leaving every
// numeric read entirely to the LLM (DESIGN.md ambient-stack note). Any
// fetch/parse failure degrades to an empty note (no indicator section) —
// this is a supplementary signal, not a required input.
func technicalIndicatorNote(reg *acquire.Registry, ctx context.Context, req Request) string {
	table, err := reg.Fetch(ctx, acquire.KindKlineDaily, req.Symbol, req.Window)
	if err != nil || len(table.Rows) < 30 {
		return ""
	}
	closes := closeSeries(table)
	if len(closes) < 30 {
		return ""
	}

	rsi := talib.Rsi(closes, 14)
	macd, signal, _ := talib.Macd(closes, 12, 26, 9)
	upper, middle, lower := talib.BBands(closes, 20, 2, 2, talib.SMA)

	last := func(s []float64) float64 {
		if len(s) == 0 {
			return 0
		}
		return s[len(s)-1]
	}
	return fmt.Sprintf(
		"量化指标(最新值): RSI(14)=%.2f MACD=%.2f Signal=%.2f 布林带上/中/下=%.2f/%.2f/%.2f",
		last(rsi), last(macd), last(signal), last(upper), last(middle), last(lower),
	)
}

// closeSeries extracts a "close" column as a float64 series, in row order,
// tolerating either a float or string-typed cell (provider adapters don't
// all agree on the wire type).
func closeSeries(t types.Table) []float64 {
	idx := t.ColumnIndex()
	ci, ok := idx["close"]
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		c := row[ci]
		switch c.Type {
		case types.CellFloat:
			out = append(out, c.F)
		case types.CellInt:
			out = append(out, float64(c.I))
		case types.CellString:
			if f, err := strconv.ParseFloat(c.S, 64); err == nil {
				out = append(out, f)
			}
		}
	}
	return out
}
