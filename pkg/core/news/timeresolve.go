package news

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// shanghai is the fixed timezone every resolved timestamp is normalized
// into, minute precision (spec §4.7).
var shanghai = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}()

// ResolveTime runs the four-tier priority chain from crawler.py's
// `_extract_publish_time`: a structured (JSON-LD-ish) field in the page,
// then a visible on-page date string, then a date embedded in the URL
// path, then a relative phrase ("3小时前") anchored to now. The first tier
// to produce a parseable timestamp wins; none succeeding leaves HasTime
// false and PublishedAt zero.
func ResolveTime(pageText, html, pageURL string, now time.Time) (time.Time, bool) {
	if t, ok := resolveStructuredField(html); ok {
		return t, true
	}
	if t, ok := resolveVisibleDate(pageText); ok {
		return t, true
	}
	if t, ok := resolveURLDate(pageURL); ok {
		return t, true
	}
	if t, ok := resolveRelativePhrase(pageText, now); ok {
		return t, true
	}
	return time.Time{}, false
}

var structuredFieldRe = regexp.MustCompile(`"(?:datePublished|pubDate|publishTime)"\s*:\s*"([^"]+)"`)

func resolveStructuredField(html string) (time.Time, bool) {
	m := structuredFieldRe.FindStringSubmatch(html)
	if m == nil {
		return time.Time{}, false
	}
	return parseAnyLayout(m[1])
}

var visibleDateRe = regexp.MustCompile(`(\d{4})[-年/](\d{1,2})[-月/](\d{1,2})(?:[日\s]+(\d{1,2}):(\d{2}))?`)

func resolveVisibleDate(text string) (time.Time, bool) {
	m := visibleDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return buildTime(m[1], m[2], m[3], m[4], m[5])
}

var urlDateRe = regexp.MustCompile(`/(\d{4})[-/]?(\d{2})[-/]?(\d{2})/`)

func resolveURLDate(u string) (time.Time, bool) {
	m := urlDateRe.FindStringSubmatch(u)
	if m == nil {
		return time.Time{}, false
	}
	return buildTime(m[1], m[2], m[3], "", "")
}

var relativeRe = regexp.MustCompile(`(\d+)\s*(分钟|小时|天|月)前`)

func resolveRelativePhrase(text string, now time.Time) (time.Time, bool) {
	m := relativeRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	var delta time.Duration
	switch m[2] {
	case "分钟":
		delta = time.Duration(n) * time.Minute
	case "小时":
		delta = time.Duration(n) * time.Hour
	case "天":
		delta = time.Duration(n) * 24 * time.Hour
	case "月":
		delta = time.Duration(n) * 30 * 24 * time.Hour
	}
	return now.In(shanghai).Add(-delta).Truncate(time.Minute), true
}

func buildTime(y, mo, d, hh, mm string) (time.Time, bool) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(mo)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(d)
	if err != nil {
		return time.Time{}, false
	}
	hour, min := 0, 0
	if hh != "" {
		hour, _ = strconv.Atoi(hh)
	}
	if mm != "" {
		min, _ = strconv.Atoi(mm)
	}
	return time.Date(year, time.Month(month), day, hour, min, 0, 0, shanghai), true
}

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseAnyLayout(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, shanghai); err == nil {
			return t.In(shanghai), true
		}
	}
	return time.Time{}, false
}
