package analyst

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/y437li/stockagent/pkg/core/acquire"
	newsenrich "github.com/y437li/stockagent/pkg/core/news"
	"github.com/y437li/stockagent/pkg/core/prompt"
	"github.com/y437li/stockagent/pkg/core/report"
	"github.com/y437li/stockagent/pkg/core/summarize"
)

// newsInterfaces is the headline-listing vendor fetch (spec §4.1); the
// richer open-web crawl sub-pipeline runs alongside it via Pipeline.
var newsInterfaces = []interfaceSpec{
	{kind: acquire.KindNewsTicker, objective: "个股新闻快讯"},
	{kind: acquire.KindNewsMajor, objective: "重大事项公告"},
	{kind: acquire.KindNewsNationwide, objective: "全国性广播新闻"},
}

// News is the DAG's news-perspective node (spec §4.3). It runs the
// vendor headline fetch and the open-web enrichment pipeline
// side by side, folding both into one combined_summary and one
// analyst report.
type News struct {
	*BaseAnalyst
	Enrichment *newsenrich.Pipeline
}

func NewNews(b *BaseAnalyst, enrichment *newsenrich.Pipeline) *News {
	return &News{BaseAnalyst: b, Enrichment: enrichment}
}

func (n *News) Name() string { return "news" }

func (n *News) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	interfaces := n.runInterfaces(ctx, n.Name(), summarize.ObjectiveNews, newsInterfaces, req.Symbol, req.Window)
	combined := combinedSummary(interfaces)

	companyName := req.CompanyName
	if companyName == "" {
		companyName = req.Symbol
	}

	var evidence []newsenrich.Evidence
	if n.Enrichment != nil {
		result, err := n.Enrichment.Run(ctx, req.Symbol, companyName, nil, req.Window)
		if err != nil {
			combined = combined + "\n\n" + fmt.Sprintf("开放网络新闻抓取失败: %v", err)
		} else {
			combined = combined + "\n\n" + result.CombinedSummary
			evidence = result.Evidence
		}
	}

	tr := report.NewToolResult("news_data", req.Period(), "news", interfaces, combined)
	if err := n.Store.SaveToolResult(req.Symbol, req.Date(), "news_data", tr); err != nil {
		return nil, err
	}

	promptText := buildPerspectivePrompt(
		req.Symbol, req.Period(), "新闻事件分析师，关注近期新闻对股价的潜在影响",
		"新闻摘要", combined, report.NewsScoreKeys, "新闻分析师",
	)
	raw := n.callLLM("news_analyst", promptText, prompt.AnalystSystemPrompt("analyst.news"))
	rep := report.ParseAnalystReport(raw, report.NewsScoreKeys)

	if err := n.Store.SaveReport(req.Symbol, req.Date(), "news_report", "analyst_report", req.Period(), rep); err != nil {
		return nil, err
	}
	if len(evidence) > 0 {
		_ = n.Store.SaveRaw(req.Symbol, req.Date(), "news_evidence", evidence)
	}
	return json.Marshal(rep)
}
