package news

import (
	"context"
	"fmt"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/agent"
	"github.com/y437li/stockagent/pkg/core/summarize"
)

// candidateCap bounds how many deduplicated search hits get an article
// fetch at all, independent of the later TopK selection; this keeps a
// broad query set from turning into hundreds of headless-browser
// navigations per run.
const candidateCap = 60

// Pipeline wires the full News Enrichment sub-pipeline (spec §4.7):
// query layering, concurrent crawl, cleaning, time resolution,
// deduplication, scoring, window selection, per-item enrichment and
// adaptively-batched summarization.
type Pipeline struct {
	Config *ConfigStore
	Agent  *agent.Manager
	Engine *summarize.Engine
}

// NewPipeline builds a Pipeline from its already-constructed
// collaborators; configPath="" runs with DefaultConfig and no hot-reload.
func NewPipeline(configPath string, mgr *agent.Manager, engine *summarize.Engine) (*Pipeline, error) {
	cs, err := NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("news pipeline: config: %w", err)
	}
	return &Pipeline{Config: cs, Agent: mgr, Engine: engine}, nil
}

// Run executes one full pass for symbol/companyName over window w and
// returns the selected, scored, enriched result. A crawl-layer failure at
// any stage degrades to fewer items rather than propagating an error —
// the only error path is an inability to launch the browser at all.
func (p *Pipeline) Run(ctx context.Context, symbol, companyName string, industryTerms []string, w acquire.Window) (*Result, error) {
	cfg := p.Config.Get()
	now := w.End

	queries := BuildQueries(ctx, cfg, p.Agent, symbol, companyName, industryTerms)

	crawler, err := NewCrawler()
	if err != nil {
		return nil, fmt.Errorf("news pipeline: %w", err)
	}
	defer crawler.Close()

	hitsByQuery := crawler.CrawlSearchPages(ctx, queries)

	items := collectCandidates(hitsByQuery, queries)
	if len(items) > candidateCap {
		items = items[:candidateCap]
	}

	items = crawler.CrawlArticlePages(ctx, items, now)

	for i := range items {
		items[i] = ScoreItem(cfg, items[i])
	}

	items = DedupItems(items)
	items = SelectItems(cfg, items, now)
	items = EnrichItems(ctx, p.Agent, items)

	summary := emptyWindowSentence
	if p.Engine != nil {
		summary = BuildCombinedSummary(ctx, p.Engine, items)
	}

	return &Result{
		Items:           items,
		CombinedSummary: summary,
		Evidence:        BuildEvidence(items),
	}, nil
}

// collectCandidates flattens per-query search hits into Items, tagging
// each with the Level of the query that found it and deduplicating by URL
// before any article fetch happens.
func collectCandidates(hitsByQuery map[Query][]SearchHit, queries []Query) []Item {
	seen := map[string]bool{}
	var items []Item
	for _, q := range queries {
		for _, hit := range hitsByQuery[q] {
			if hit.URL == "" || seen[hit.URL] {
				continue
			}
			seen[hit.URL] = true
			items = append(items, Item{
				Title:     hit.Title,
				URL:       hit.URL,
				Snippet:   cleanSnippet(hit.Snippet),
				SourceRaw: hit.SourceRaw,
				Level:     q.Level,
			})
		}
	}
	return items
}
