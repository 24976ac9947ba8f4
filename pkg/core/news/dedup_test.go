package news

import (
	"testing"
	"time"
)

func TestCanonicalTitle(t *testing.T) {
	a := canonicalTitle("【财联社】公司发布回购公告")
	b := canonicalTitle("公司发布回购公告（转载）")
	if a != b {
		t.Fatalf("canonicalTitle mismatch: %q vs %q", a, b)
	}
}

func TestDedupItemsMergesAndUnions(t *testing.T) {
	now := time.Date(2026, 7, 30, 10, 0, 0, 0, shanghai)
	items := []Item{
		{Title: "公司发布回购公告", URL: "https://a.com/1", SourceNorm: "财联社", HasTime: false},
		{Title: "【转】公司发布回购公告", URL: "https://b.com/2", SourceNorm: "东方财富", HasTime: true, PublishedAt: now},
	}
	out := DedupItems(items)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged event, got %d", len(out))
	}
	if !out[0].HasTime {
		t.Fatalf("expected the timed item to win representative selection")
	}
	if len(out[0].URLs) != 2 || len(out[0].Sources) != 2 {
		t.Fatalf("expected union of urls/sources, got urls=%v sources=%v", out[0].URLs, out[0].Sources)
	}
}

func TestSelectItemsDropsOutsideWindowAndNeverBackfills(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowDays = 3
	cfg.TopK = 10
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, shanghai)

	items := []Item{
		{Title: "within window", HasTime: true, PublishedAt: now.AddDate(0, 0, -1)},
		{Title: "stale", HasTime: true, PublishedAt: now.AddDate(0, 0, -10)},
		{Title: "no time", HasTime: false},
	}
	out := SelectItems(cfg, items, now)
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 in-window item, got %d: %+v", len(out), out)
	}
	if out[0].Title != "within window" {
		t.Fatalf("unexpected survivor: %q", out[0].Title)
	}
}

func TestScoreItemSentimentAndImpact(t *testing.T) {
	cfg := DefaultConfig()
	it := ScoreItem(cfg, Item{Title: "公司获批重大订单，业绩增长超预期", Level: LevelCompany, SourceRaw: "财联社"})
	if it.Sentiment != SentimentPositive {
		t.Fatalf("expected positive sentiment, got %s", it.Sentiment)
	}
	if it.Impact <= 50 {
		t.Fatalf("expected positive impact above the neutral baseline, got %d", it.Impact)
	}
}

func TestBuildCombinedSummaryEmptySelection(t *testing.T) {
	got := BuildCombinedSummary(nil, nil, nil)
	if got != emptyWindowSentence {
		t.Fatalf("expected empty-window sentinel, got %q", got)
	}
}

func TestBuildEvidenceExcludesHostileHosts(t *testing.T) {
	items := []Item{
		{Title: "a", URL: "https://www.bing.com/news/x", SourceNorm: "必应"},
		{Title: "b", URL: "https://www.cls.cn/detail/123", SourceNorm: "财联社"},
	}
	ev := BuildEvidence(items)
	if len(ev) != 1 || ev[0].Source != "财联社" {
		t.Fatalf("expected only the non-hostile item, got %+v", ev)
	}
}
