package news

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// cleanPageText strips an article page down to its readable body text,
// transcribing crawler.py's `_clean_page_text`: drop script/style/nav/
// footer/header nodes, collapse whitespace, then gate on CJK density so a
// mostly-non-Chinese page (ad wall, paywall stub, foreign mirror) degrades
// to an empty string rather than polluting the summary corpus.
func cleanPageText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script,style,nav,footer,header,noscript,iframe,form").Remove()
	text := doc.Find("body").Text()
	text = collapseWhitespace(text)
	if !hasEnoughChinese(text) {
		return ""
	}
	if len(text) > 4000 {
		text = text[:4000]
	}
	return text
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// hasEnoughChinese mirrors `_has_enough_chinese`: requires both a minimum
// absolute count and a minimum ratio of CJK runes among non-space runes, so
// short but dense snippets still pass while long mostly-Latin pages fail.
func hasEnoughChinese(s string) bool {
	var cjk, total int
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isCJK(r) {
			cjk++
		}
	}
	if total == 0 {
		return false
	}
	return cjk >= 30 && float64(cjk)/float64(total) >= 0.05
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}

// cleanSnippet applies the same whitespace collapse to a short search-hit
// snippet without the CJK gate, since snippets are display text, not
// corpus input.
func cleanSnippet(s string) string {
	return collapseWhitespace(s)
}
