package news

import (
	"context"
	"fmt"
	"net/url"

	"github.com/y437li/stockagent/pkg/core/agent"
	"github.com/y437li/stockagent/pkg/core/utils"
)

// searchEndpoint is the single fixed search entry point every term
// produces one URL against (spec §4.7).
const searchEndpoint = "https://www.bing.com/news/search?q="

// companySuffixes and macroSuffixes are transcribed from the reference
// implementation's query construction (crawler.py's term building around
// `_process_news_with_crawl4ai`).
var companySuffixes = []string{"公告", "研报", "回购", "减持"}
var macroSuffixes = []string{"政策", "PMI", "通胀"}

// Query is one search term plus the Level it belongs to.
type Query struct {
	Term  string
	Level Level
	URL   string
}

// BuildQueries lays out the three term tiers (spec §4.7 "Query layering"):
// company (symbol + company name + fixed suffixes), industry (expanded via
// the configured upper-word map, optionally via LLM), macro (policy/PMI/
// inflation suffixes). Each term produces one search URL.
func BuildQueries(ctx context.Context, cfg Config, mgr *agent.Manager, symbol, companyName string, industryTerms []string) []Query {
	var queries []Query

	for _, suffix := range companySuffixes {
		term := companyName + suffix
		if companyName == "" {
			term = symbol + suffix
		}
		queries = append(queries, newQuery(term, LevelCompany))
	}
	queries = append(queries, newQuery(symbol, LevelCompany))

	for _, term := range ExpandIndustryKeywords(ctx, cfg, mgr, industryTerms) {
		queries = append(queries, newQuery(term, LevelIndustry))
	}

	for _, suffix := range macroSuffixes {
		queries = append(queries, newQuery(companyName+suffix, LevelMacro))
	}

	return queries
}

func newQuery(term string, level Level) Query {
	return Query{Term: term, Level: level, URL: searchEndpoint + url.QueryEscape(term)}
}

// ExpandIndustryKeywords expands each seed term to 2-5 upper-level terms
// via the configured map, falling back to an LLM call when the map misses
// and industry_upper_llm_enabled is set (spec §4.7; original_source's
// expand_industry_keywords / _llm_expand_industry_terms).
func ExpandIndustryKeywords(ctx context.Context, cfg Config, mgr *agent.Manager, seeds []string) []string {
	seen := map[string]bool{}
	var out []string
	emit := func(term string) {
		if term != "" && !seen[term] {
			seen[term] = true
			out = append(out, term)
		}
	}

	for _, seed := range seeds {
		if seed == "" {
			continue
		}
		emit(seed)
		uppers := cfg.IndustryUpperMap[seed]
		if len(uppers) == 0 && cfg.IndustryUpperLLMOn && mgr != nil {
			uppers = llmExpandIndustryTerms(mgr, seed)
		}
		for _, u := range uppers {
			emit(u)
		}
	}
	return out
}

// llmExpandIndustryTerms asks the LLM for 2-5 upper-level industry terms
// for one seed keyword. LLM failure degrades to an empty slice (no upper
// terms), never an error surfaced to the caller.
func llmExpandIndustryTerms(mgr *agent.Manager, seed string) []string {
	prompt := fmt.Sprintf("为关键词“%s”生成2-5个更上位的行业/主题词，仅返回JSON字符串数组。", seed)
	resp, err := mgr.ExecutePrompt("news_industry_expander", prompt, "你是一个行业分类助手，只输出JSON数组。", nil)
	if err != nil {
		return nil
	}
	var terms []string
	if _, err := utils.SmartParse(resp, &terms); err != nil {
		return nil
	}
	return terms
}
