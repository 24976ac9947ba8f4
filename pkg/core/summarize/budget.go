// Package summarize implements the two-stage table reduction (column
// selection then objective-specific summarization) and the adaptive
// token-budgeted batcher used by news-corpus summarization (spec §4.2).
package summarize

import (
	"strconv"
	"strings"
	"unicode"
)

// BudgetConfig carries the token-budget planner's tunables. Defaults below
// are grounded in original_source/core/data_processor.py's module-level
// constants (SPEC_FULL.md §4.2 lists the exact values).
type BudgetConfig struct {
	ModelMaxTokens int     // M
	InputRatio     float64 // r, default 0.6 (accepted range 0.55-0.65)
	PromptTokens   int     // P
	OutputTokens   int     // O
}

// DefaultBudgetConfig mirrors the reference implementation's constants.
func DefaultBudgetConfig() BudgetConfig {
	return BudgetConfig{
		ModelMaxTokens: 65000,
		InputRatio:     0.6,
		PromptTokens:   1200,
		OutputTokens:   1500,
	}
}

const (
	minInputTokenBudget = 8000
	hardCharCap         = 38000
	floorCharCap        = 4000
	charsPerTokenCJK    = 1.0
	charsPerTokenLatin  = 3.2
	cjkRatioThreshold   = 0.2
	sampleItemLimit     = 20
)

// BatchSeparator joins concatenated batch results; PerBatchHeader is applied
// to each rendered batch before it is sent to the LLM (transcribed from the
// reference implementation's "【批次 i/N】{objective}" header and
// "\n\n---\n\n" separator).
const BatchSeparator = "\n\n---\n\n"

func PerBatchHeader(i, n int, objective string) string {
	return batchHeaderPrefix + strconv.Itoa(i) + "/" + strconv.Itoa(n) + batchHeaderSuffix + objective
}

const batchHeaderPrefix = "【批次 "
const batchHeaderSuffix = "】"

// InputTokenBudget computes B = max(M*r - P - O, 8000).
func InputTokenBudget(cfg BudgetConfig) int {
	raw := float64(cfg.ModelMaxTokens)*cfg.InputRatio - float64(cfg.PromptTokens) - float64(cfg.OutputTokens)
	if raw < minInputTokenBudget {
		return minInputTokenBudget
	}
	return int(raw)
}

// CJKRatio samples up to 20 items and returns the fraction of CJK runes
// among all runes sampled. Per DESIGN.md's resolved Open Question, the
// ratio is estimated once over the whole corpus rather than per batch —
// both are spec-acceptable as long as the 38000-char hard cap holds.
func CJKRatio(items []string) float64 {
	n := len(items)
	if n > sampleItemLimit {
		n = sampleItemLimit
	}
	var cjk, total int
	for _, s := range items[:n] {
		for _, r := range s {
			total++
			if isCJK(r) {
				cjk++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(cjk) / float64(total)
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r)
}

// CharCap converts the token budget into the batch character cap:
// min(B * chars_per_token * 0.95, 38000), floored at 4000.
func CharCap(cfg BudgetConfig, items []string) int {
	b := InputTokenBudget(cfg)
	charsPerToken := charsPerTokenLatin
	if CJKRatio(items) >= cjkRatioThreshold {
		charsPerToken = charsPerTokenCJK
	}
	charCap := float64(b) * charsPerToken * 0.95
	if charCap > hardCharCap {
		charCap = hardCharCap
	}
	if charCap < floorCharCap {
		charCap = floorCharCap
	}
	return int(charCap)
}

// PackBatches greedily packs items (insertion order) into batches whose
// concatenation (items joined by a blank line) does not exceed capChars. An
// item that alone exceeds the cap forms its own oversized batch (the cap is
// a soft packing limit, never a truncation limit).
func PackBatches(items []string, capChars int) [][]string {
	var batches [][]string
	var cur []string
	curLen := 0
	for _, item := range items {
		addLen := len(item)
		if len(cur) > 0 {
			addLen += 2 // blank-line separator
		}
		if len(cur) > 0 && curLen+addLen > capChars {
			batches = append(batches, cur)
			cur = nil
			curLen = 0
			addLen = len(item)
		}
		cur = append(cur, item)
		curLen += addLen
	}
	if len(cur) > 0 {
		batches = append(batches, cur)
	}
	return batches
}

// RenderBatch joins one packed batch's items with a blank line, matching
// the "concatenation of items separated by a blank line" wire shape sent
// to the LLM as one call.
func RenderBatch(batch []string) string {
	return strings.Join(batch, "\n\n")
}
