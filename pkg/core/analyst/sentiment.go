package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/y437li/stockagent/pkg/core/prompt"
	"github.com/y437li/stockagent/pkg/core/report"
)

// Sentiment is the DAG's sentiment-perspective node (spec §4.3). It has
// no acquisition interfaces of its own; its input is entirely derived
// from the News and Fundamental nodes' already-persisted ToolResults
// (spec §4.4's read-from-artifact-store dependency rule), matching
// original_source/graph/nodes/analysis_nodes.py::run_sentiment_analysis.
type Sentiment struct{ *BaseAnalyst }

func NewSentiment(b *BaseAnalyst) *Sentiment { return &Sentiment{b} }

func (n *Sentiment) Name() string { return "sentiment" }

func (n *Sentiment) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	input := n.sentimentInput(req)

	if err := n.Store.SaveRaw(req.Symbol, req.Date(), "sentiment_input", map[string]string{"text": input}); err != nil {
		return nil, err
	}

	promptText := buildPerspectivePrompt(
		req.Symbol, req.Period(), "市场情绪分析师，关注市场热度、投资者情绪与机构看法",
		"舆情与新闻摘要", input, report.SentimentScoreKeys, "市场情绪分析师",
	)
	raw := n.callLLM("sentiment_analyst", promptText, prompt.AnalystSystemPrompt("analyst.sentiment"))
	rep := report.ParseAnalystReport(raw, report.SentimentScoreKeys)

	if err := n.Store.SaveReport(req.Symbol, req.Date(), "sentiment_report", "analyst_report", req.Period(), rep); err != nil {
		return nil, err
	}
	return json.Marshal(rep)
}

// sentimentInput assembles the combined News summary plus every
// Fundamental interface's per-interface summary, each tagged with a
// 【label】 header (transcribed from run_sentiment_analysis's prompt
// assembly). If the Fundamental ToolResult is unavailable it falls back to
// the Fundamental report's own reason/detailed_analysis text so the node
// still has fundamental input.
func (n *Sentiment) sentimentInput(req Request) string {
	var parts []string

	if news, ok := n.Store.LoadToolResult(req.Symbol, req.Date(), "news_data"); ok {
		parts = append(parts, "【新闻摘要】\n"+news.Data.CombinedSummary)
	}

	fundamental, fundamentalOK := n.Store.LoadToolResult(req.Symbol, req.Date(), "fundamental_data")
	if fundamentalOK {
		for name, ir := range fundamental.Data.Interfaces {
			if ir.Summary == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("【%s:%s】\n%s", name, ir.Objective, ir.Summary))
		}
	}

	if !fundamentalOK {
		var fr report.AnalystReport
		if n.Store.LoadReport(req.Symbol, req.Date(), "fundamental_report", &fr) {
			parts = append(parts, "【基本面结论】\n"+fr.Reason+"\n"+fr.DetailedAnalysis)
		}
	}

	if len(parts) == 0 {
		return "暂无可用的新闻或基本面数据用于情绪分析"
	}
	return strings.Join(parts, "\n\n")
}
