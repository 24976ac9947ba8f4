package news

import (
	"regexp"
	"sort"
	"strings"
)

// canonicalTitleRe strips punctuation/whitespace/bracketed source tags
// ("（转载）", "【财联社】"), runs of two or more digits and the filler
// words "快讯"/"最新" so near-duplicate titles from different outlets
// collapse to the same dedup key, transcribing crawler.py's
// `_canonical_title`.
var canonicalTitleRe = regexp.MustCompile(`[\s,，。！？：:;；、“”"'‘’()（）\[\]【】]+`)
var bracketTagRe = regexp.MustCompile(`[【（(][^】）)]{0,12}[】）)]`)
var titleNoiseRe = regexp.MustCompile(`\d{2,}|快讯|最新`)

func canonicalTitle(title string) string {
	t := bracketTagRe.ReplaceAllString(title, "")
	t = titleNoiseRe.ReplaceAllString(t, "")
	t = canonicalTitleRe.ReplaceAllString(t, "")
	return strings.ToLower(strings.TrimSpace(t))
}

// DedupItems groups items sharing a canonical title into one event,
// selects a representative per group, and unions URLs/sources across the
// group onto it (spec §4.7 "canonical-title event de-duplication").
// Representative selection prefers: priority keyword hit > more recent
// resolved time (an item without one ranks last) > higher scoring weight
// (source weight x layer weight x macro boost), matching
// `_select_representative`.
func DedupItems(items []Item) []Item {
	groups := map[string][]Item{}
	var order []string
	for _, it := range items {
		key := canonicalTitle(it.Title)
		if key == "" {
			key = it.URL
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], it)
	}

	out := make([]Item, 0, len(order))
	for _, key := range order {
		out = append(out, mergeGroup(groups[key]))
	}
	return out
}

func mergeGroup(group []Item) Item {
	sort.SliceStable(group, func(i, j int) bool {
		return betterRepresentative(group[i], group[j])
	})
	rep := group[0]

	urlSet := map[string]bool{}
	sourceSet := map[string]bool{}
	for _, it := range group {
		if it.URL != "" {
			urlSet[it.URL] = true
		}
		if it.SourceNorm != "" {
			sourceSet[it.SourceNorm] = true
		} else if it.SourceRaw != "" {
			sourceSet[it.SourceRaw] = true
		}
	}
	rep.URLs = sortedKeys(urlSet)
	rep.Sources = sortedKeys(sourceSet)
	return rep
}

func betterRepresentative(a, b Item) bool {
	if a.Priority != b.Priority {
		return a.Priority
	}
	if a.HasTime != b.HasTime {
		return a.HasTime
	}
	if a.HasTime && !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.Weight > b.Weight
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
