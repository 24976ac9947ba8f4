package news

import (
	"net/url"
	"strings"
)

// NormalizeSource resolves an item's display source name through the
// configured alias maps, preferring an exact source-name alias and
// falling back to a domain-based alias extracted from its URL
// (crawler.py's `_normalize_source`).
func NormalizeSource(cfg Config, sourceRaw, itemURL string) string {
	if sourceRaw != "" {
		if alias, ok := cfg.SourceAliases[sourceRaw]; ok {
			return alias
		}
	}
	domain := extractDomain(itemURL)
	if domain != "" {
		if alias, ok := cfg.DomainAliases[domain]; ok {
			return alias
		}
	}
	if sourceRaw != "" {
		return sourceRaw
	}
	return domain
}

func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Host, "www.")
	return host
}

// sourceWeight looks up the layered weight for a normalized source name or
// its backing domain, defaulting to 1.0 when neither is configured.
func sourceWeight(cfg Config, sourceNorm, itemURL string) float64 {
	if w, ok := cfg.SourceWeights[sourceNorm]; ok {
		return w
	}
	if w, ok := cfg.DomainWeights[extractDomain(itemURL)]; ok {
		return w
	}
	return 1.0
}

// ScoreSentiment runs the word-hit classifier from crawler.py's
// `_score_sentiment`: counts positive and negative keyword hits across
// title+snippet+page text and returns the sign of positive minus negative
// (a tie is neutral) plus that signed direction (+1/0/-1) for the impact
// formula.
func ScoreSentiment(cfg Config, it Item) (Sentiment, int) {
	text := it.Title + " " + it.Snippet + " " + it.PageText
	pos := countHits(text, cfg.PosWords)
	neg := countHits(text, cfg.NegWords)

	switch {
	case pos > neg:
		return SentimentPositive, 1
	case neg > pos:
		return SentimentNegative, -1
	default:
		return SentimentNeutral, 0
	}
}

func countHits(text string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(text, w)
	}
	return n
}

// IsPriority reports whether the item's title or snippet contains any of
// the configured priority keywords (disclosure/suspension/regulatory
// events that outrank ordinary recency ordering, spec §4.7).
func IsPriority(cfg Config, it Item) bool {
	text := it.Title + " " + it.Snippet
	for _, kw := range cfg.PriorityKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsMacroEvent reports whether the item mentions any configured
// macro-policy keyword (spec §4.7 "macro event boost").
func IsMacroEvent(cfg Config, it Item) bool {
	text := it.Title + " " + it.Snippet
	for _, kw := range cfg.MacroEventKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ScoreItem fills in SourceNorm, Sentiment, Priority, MacroEvent, Weight
// and Impact on it in place, implementing the full scoring chain:
// weight = source_weight * layer_weight * (macro_boost if applicable);
// impact = clip(sign * weight * 20 + 50, 0, 100).
func ScoreItem(cfg Config, it Item) Item {
	it.SourceNorm = NormalizeSource(cfg, it.SourceRaw, it.URL)
	sentiment, sign := ScoreSentiment(cfg, it)
	it.Sentiment = sentiment
	it.Priority = IsPriority(cfg, it)
	it.MacroEvent = IsMacroEvent(cfg, it)

	weight := sourceWeight(cfg, it.SourceNorm, it.URL)
	if lw, ok := cfg.LayerWeights[string(it.Level)]; ok {
		weight *= lw
	}
	if it.MacroEvent && cfg.MacroEventBoost > 0 {
		weight *= cfg.MacroEventBoost
	}
	it.Weight = weight

	impact := float64(sign)*weight*20 + 50
	it.Impact = clipInt(impact, 0, 100)
	return it
}

func clipInt(v, lo, hi float64) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int(v)
}
