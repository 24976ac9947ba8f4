// Package news implements the News Enrichment sub-pipeline (spec §4.7):
// query expansion, concurrent search+article crawling, cleaning and
// Chinese-language filtering, time extraction, event de-duplication,
// source normalization, sentiment scoring, layered weighting and
// structured summarization with cited evidence.
//
// Grounded throughout on original_source/tools/crawler.py; concurrency
// and DOM-rendering replace crawl4ai with github.com/go-rod/rod (headless
// render, a pack dep) + github.com/PuerkitoBio/goquery (DOM parsing, a
// teacher dep), plus github.com/yuin/goldmark for the Markdown-link
// fallback path.
package news

import "time"

// Level is the query tier that sourced a news item.
type Level string

const (
	LevelCompany  Level = "company"
	LevelIndustry Level = "industry"
	LevelMacro    Level = "macro"
)

// Sentiment is the three-value word-hit verdict (spec §3).
type Sentiment string

const (
	SentimentPositive Sentiment = "正面"
	SentimentNeutral  Sentiment = "中性"
	SentimentNegative Sentiment = "负面"
)

// Item is one enriched news item (spec §3 NewsItem).
type Item struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Snippet     string    `json:"snippet"`
	PageText    string    `json:"page_text"`
	SourceRaw   string    `json:"source_raw"`
	SourceNorm  string    `json:"source_norm"`
	PublishedAt time.Time `json:"published_at"`
	HasTime     bool      `json:"has_time"`
	Level       Level     `json:"level"`
	Sentiment   Sentiment `json:"sentiment"`
	Weight      float64   `json:"weight"`
	Priority    bool      `json:"priority"`
	Impact      int       `json:"impact"`
	MacroEvent  bool      `json:"macro_event"`
	URLs        []string  `json:"urls"`
	Sources     []string  `json:"sources"`
}

// Evidence is one cited source backing the overall summary (spec §4.7).
type Evidence struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
	Impact int    `json:"impact"`
}

// Result is the outcome of one full pipeline run: the selected items, the
// adaptively-batched overall summary, and the citation list feeding it.
type Result struct {
	Items           []Item     `json:"items"`
	CombinedSummary string     `json:"combined_summary"`
	Evidence        []Evidence `json:"evidence"`
}

// emptyWindowSentence is the fixed sentence the combined summary carries
// when the window selection is empty (spec §4.7 "never back-filled";
// scenario S3).
const emptyWindowSentence = "近期窗口内未检索到与该标的相关的新闻事件"
