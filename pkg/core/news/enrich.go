package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/y437li/stockagent/pkg/core/agent"
	"github.com/y437li/stockagent/pkg/core/summarize"
)

// enrichCap bounds how many items receive a per-item LLM blurb; the rest
// keep their raw snippet. Only priority items or items whose impact score
// exceeds enrichImpactFloor are eligible, matching the reference
// implementation's "don't pay for an LLM call on routine news" guard.
const (
	enrichCap        = 24
	enrichImpactFloor = 60
	evidenceCap      = 6
)

// hostileHosts are excluded from the evidence list: redirector/tracking
// domains that would make a poor citation even though their content
// passed the crawl (transcribed from crawler.py's
// `_is_hostile_domain`).
var hostileHosts = []string{"bing.com", "go.microsoft.com", "t.cn"}

// EnrichItems rewrites each eligible item's Snippet with a one-sentence
// LLM-produced gist of its PageText, capped at enrichCap calls total
// (spec §4.7 "per-item enrichment"). Items left out of the cap, or whose
// enrichment call fails, keep their original snippet unchanged.
func EnrichItems(ctx context.Context, mgr *agent.Manager, items []Item) []Item {
	calls := 0
	for i := range items {
		if calls >= enrichCap {
			break
		}
		it := items[i]
		if !it.Priority && it.Impact <= enrichImpactFloor {
			continue
		}
		if it.PageText == "" {
			continue
		}
		gist := enrichOne(mgr, it)
		calls++
		if gist == "" {
			continue
		}
		items[i].Snippet = gist
	}
	return items
}

func enrichOne(mgr *agent.Manager, it Item) string {
	if mgr == nil {
		return ""
	}
	prompt := fmt.Sprintf("用一句话（不超过60字）概括以下新闻的核心事实，不要加入评价：\n标题：%s\n正文：%s", it.Title, truncateRunes(it.PageText, 1500))
	resp, err := mgr.ExecutePrompt("news_item_enricher", prompt, "你是新闻编辑，只输出一句话摘要，不加任何前缀。", nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(resp)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// BuildCombinedSummary renders the selected items into the adaptive
// token-budgeted corpus summarizer (spec §4.7's combined_summary output),
// summarize.Engine.SummarizeCorpus.
func BuildCombinedSummary(ctx context.Context, engine *summarize.Engine, items []Item) string {
	if len(items) == 0 {
		return emptyWindowSentence
	}
	rendered := make([]string, 0, len(items))
	for _, it := range items {
		rendered = append(rendered, renderItem(it))
	}
	return engine.SummarizeCorpus(ctx, summarize.DefaultBudgetConfig(), "近期新闻事件摘要", rendered)
}

func renderItem(it Item) string {
	when := "时间未知"
	if it.HasTime {
		when = it.PublishedAt.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("[%s] %s (来源: %s, 情绪: %s, 影响度: %d)\n%s",
		when, it.Title, it.SourceNorm, it.Sentiment, it.Impact, it.Snippet)
}

// BuildEvidence selects up to evidenceCap cited sources backing the
// combined summary, excluding hostile/redirector hosts and keeping the
// items in the order they are given.
func BuildEvidence(items []Item) []Evidence {
	var out []Evidence
	for _, it := range items {
		if len(out) >= evidenceCap {
			break
		}
		if isHostileHost(it.URL) {
			continue
		}
		out = append(out, Evidence{Title: it.Title, URL: it.URL, Source: it.SourceNorm, Impact: it.Impact})
	}
	return out
}

func isHostileHost(u string) bool {
	domain := extractDomain(u)
	for _, h := range hostileHosts {
		if domain == h || strings.HasSuffix(domain, "."+h) {
			return true
		}
	}
	return false
}
