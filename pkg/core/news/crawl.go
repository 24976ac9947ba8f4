package news

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"golang.org/x/sync/errgroup"
)

// crawlConcurrency bounds each of the two crawl phases independently
// (search list, article page), spec §5/§4.7: "semaphore of 4".
const crawlConcurrency = 4

// SearchHit is one raw (title, url, snippet, source) tuple lifted off a
// rendered search-results page, before time resolution or cleaning.
type SearchHit struct {
	Title     string
	URL       string
	Snippet   string
	SourceRaw string
}

// Crawler drives a single headless browser instance across both crawl
// phases. Grounded on original_source/tools/crawler.py's
// `_process_news_with_crawl4ai` + `_fetch_with_retry`, with crawl4ai's
// JS-rendering capability replaced by go-rod (a pack dep) and DOM
// extraction handled by goquery (teacher dep) over the rendered HTML.
type Crawler struct {
	browser *rod.Browser
}

// NewCrawler launches (but does not yet navigate) a headless browser.
// Callers must Close() when done.
func NewCrawler() (*Crawler, error) {
	browser := rod.New()
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("news crawler: connect browser: %w", err)
	}
	return &Crawler{browser: browser}, nil
}

func (c *Crawler) Close() error {
	if c.browser == nil {
		return nil
	}
	return c.browser.Close()
}

// CrawlSearchPages fetches and parses every query's search-results page
// concurrently, bounded by crawlConcurrency. A single page's failure
// yields zero hits for that query rather than aborting the batch (spec
// §4.8 "News sub-pipeline exceptions are caught at the outermost crawl
// boundary").
func (c *Crawler) CrawlSearchPages(ctx context.Context, queries []Query) map[Query][]SearchHit {
	results := make(map[Query][]SearchHit, len(queries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(crawlConcurrency)
	for _, q := range queries {
		q := q
		g.Go(func() error {
			hits := c.fetchSearchPage(gctx, q.URL)
			mu.Lock()
			results[q] = hits
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (c *Crawler) fetchSearchPage(ctx context.Context, pageURL string) []SearchHit {
	html, err := c.renderPage(ctx, pageURL)
	if err != nil {
		return nil
	}
	hits := parseSearchHitsHTML(html)
	if len(hits) == 0 {
		// fallback path for sources that hand back already-rendered
		// Markdown (e.g. a README/docs-style proxy) instead of HTML.
		hits = parseSearchHitsMarkdown(html)
	}
	return hits
}

// renderPage navigates to url and returns the fully rendered HTML.
func (c *Crawler) renderPage(ctx context.Context, pageURL string) (string, error) {
	page, err := c.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return "", err
	}
	defer page.Close()
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// CrawlArticlePages fetches, cleans, and time-resolves every selected
// item's article page concurrently, bounded by crawlConcurrency.
// Populates PageText, HasTime and PublishedAt in place; now is the
// reference instant relative-phrase resolution ("3小时前") anchors to.
func (c *Crawler) CrawlArticlePages(ctx context.Context, items []Item, now time.Time) []Item {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(crawlConcurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			articleURL := normalizeArticleURL(items[i].URL)
			html, err := c.renderPage(gctx, articleURL)
			if err != nil {
				return nil // article fetch failure: leave PageText empty, not an error
			}
			items[i].PageText = cleanPageText(html)
			if t, ok := ResolveTime(items[i].PageText, html, articleURL, now); ok {
				items[i].PublishedAt = t
				items[i].HasTime = true
			}
			return nil
		})
	}
	_ = g.Wait()
	return items
}

// dy163Re rewrites a known problematic article domain, grounded on
// crawler.py's `_normalize_article_url`.
var dy163Re = regexp.MustCompile(`^https?://dy\.163\.com/article/([A-Za-z0-9]+)\.html`)

func normalizeArticleURL(u string) string {
	if m := dy163Re.FindStringSubmatch(u); m != nil {
		return "https://www.163.com/dy/article/" + m[1] + ".html"
	}
	return u
}

// badURLParts filters search-operator internals out of extracted links
// (spec §4.7 "invalid URLs ... are dropped").
var badURLParts = []string{
	"bing.com/rebates", "bing.com/copilotsearch", "bing.com/maps", "bing.com/shop",
	"bing.com/travel", "bing.com/videos", "bing.com/images", "/rebates/", "/payouts",
	"form=PTFTNR",
}

func isValidURL(u string) bool {
	if u == "" || strings.HasPrefix(u, "javascript:") {
		return false
	}
	for _, bp := range badURLParts {
		if strings.Contains(u, bp) {
			return false
		}
	}
	return strings.HasPrefix(u, "http")
}

// parseSearchHitsHTML extracts (title, url) anchors from the rendered
// search-results DOM via goquery, matching the `[title](url)` search-hit
// shape the reference implementation expects from crawl4ai's Markdown
// output, but read directly off the DOM instead of a markdown conversion.
func parseSearchHitsHTML(html string) []SearchHit {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var hits []SearchHit
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := strings.TrimSpace(s.Text())
		if len(title) < 3 || !isValidURL(href) {
			return
		}
		hits = append(hits, SearchHit{Title: title, URL: href})
	})
	return hits
}

// parseSearchHitsMarkdown is the Markdown-link fallback path (DESIGN.md):
// walks a goldmark AST for `[title](url)` link nodes when a source hands
// back Markdown text directly rather than HTML.
func parseSearchHitsMarkdown(mdText string) []SearchHit {
	md := goldmark.New()
	reader := gmtext.NewReader([]byte(mdText))
	doc := md.Parser().Parse(reader)

	var hits []SearchHit
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		var title strings.Builder
		for c := link.FirstChild(); c != nil; c = c.NextSibling() {
			if text, ok := c.(*ast.Text); ok {
				title.Write(text.Segment.Value([]byte(mdText)))
			}
		}
		url := string(link.Destination)
		if title.Len() >= 3 && isValidURL(url) {
			hits = append(hits, SearchHit{Title: title.String(), URL: url})
		}
		return ast.WalkContinue, nil
	})
	return hits
}
