package news

import (
	"testing"
	"time"
)

func TestResolveRelativePhraseAllGranularities(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, shanghai)
	cases := []struct {
		text string
		want time.Time
	}{
		{"3分钟前发布", now.Add(-3 * time.Minute)},
		{"5小时前发布", now.Add(-5 * time.Hour)},
		{"2天前发布", now.AddDate(0, 0, -2)},
		{"2月前发布", now.AddDate(0, 0, -60)},
	}
	for _, c := range cases {
		got, ok := resolveRelativePhrase(c.text, now)
		if !ok {
			t.Fatalf("resolveRelativePhrase(%q): expected a match", c.text)
		}
		if !got.Equal(c.want.Truncate(time.Minute)) {
			t.Fatalf("resolveRelativePhrase(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
