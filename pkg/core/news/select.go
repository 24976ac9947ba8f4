package news

import (
	"sort"
	"time"
)

// SelectItems filters to the configured recency window, ranks, and caps at
// TopK. Ranking order: priority items first, then most recent, then
// highest impact (spec §4.7 "sort by priority/time/impact"). Items
// outside the window are dropped outright; the selection is never
// back-filled to reach TopK when fewer items survive the window filter
// (scenario S3's empty-window sentinel depends on this never silently
// padding with stale items).
func SelectItems(cfg Config, items []Item, now time.Time) []Item {
	cutoff := now.In(shanghai).AddDate(0, 0, -cfg.WindowDays)

	var inWindow []Item
	for _, it := range items {
		if !it.HasTime || it.PublishedAt.Before(cutoff) {
			continue
		}
		inWindow = append(inWindow, it)
	}

	sort.SliceStable(inWindow, func(i, j int) bool {
		a, b := inWindow[i], inWindow[j]
		if a.Priority != b.Priority {
			return a.Priority
		}
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.Impact > b.Impact
	})

	topK := cfg.TopK
	if topK <= 0 || topK > len(inWindow) {
		topK = len(inWindow)
	}
	return inWindow[:topK]
}
