package summarize

import (
	"strings"
	"testing"
)

func TestInputTokenBudget_Default(t *testing.T) {
	cfg := DefaultBudgetConfig()
	b := InputTokenBudget(cfg)
	want := int(65000*0.6 - 1200 - 1500)
	if b != want {
		t.Fatalf("InputTokenBudget = %d, want %d", b, want)
	}
}

func TestInputTokenBudget_Floor(t *testing.T) {
	cfg := BudgetConfig{ModelMaxTokens: 16000, InputRatio: 0.55, PromptTokens: 1200, OutputTokens: 1500}
	b := InputTokenBudget(cfg)
	if b < minInputTokenBudget {
		t.Fatalf("InputTokenBudget = %d, want >= %d", b, minInputTokenBudget)
	}
}

func TestCharCap_HardCapAndFloor(t *testing.T) {
	cfg := DefaultBudgetConfig()
	items := []string{"这是一个包含很多中文字符的示例文本，用于测试CJK比例判断逻辑是否正确工作。"}
	cap := CharCap(cfg, items)
	if cap > hardCharCap {
		t.Fatalf("cap %d exceeds hard cap %d", cap, hardCharCap)
	}
	if cap < floorCharCap {
		t.Fatalf("cap %d below floor %d", cap, floorCharCap)
	}

	tiny := BudgetConfig{ModelMaxTokens: 16000, InputRatio: 0.55, PromptTokens: 1200, OutputTokens: 1500}
	tinyCap := CharCap(tiny, []string{"short english text"})
	if tinyCap < floorCharCap {
		t.Fatalf("tiny cap %d below floor", tinyCap)
	}
}

func TestPackBatches_GreedyAndOversizedItem(t *testing.T) {
	items := []string{"aaaa", "bbbb", "cccc"}
	batches := PackBatches(items, 10)
	if len(batches) == 0 {
		t.Fatal("expected at least one batch")
	}
	for _, b := range batches {
		if len(RenderBatch(b)) > 10 {
			// A single oversized item is allowed to exceed the cap alone;
			// verify that's the only way this can happen.
			if len(b) != 1 {
				t.Fatalf("batch %v exceeds cap without being a lone oversized item", b)
			}
		}
	}

	oversized := []string{strings.Repeat("x", 100)}
	single := PackBatches(oversized, 10)
	if len(single) != 1 || len(single[0]) != 1 {
		t.Fatalf("expected a lone oversized item to form its own batch, got %v", single)
	}
}

func TestCJKRatio_Threshold(t *testing.T) {
	cjkHeavy := []string{"中文文本内容较多测试"}
	if CJKRatio(cjkHeavy) < cjkRatioThreshold {
		t.Fatal("expected CJK-heavy sample to exceed threshold")
	}
	latinOnly := []string{"pure english text sample"}
	if CJKRatio(latinOnly) >= cjkRatioThreshold {
		t.Fatal("expected Latin-only sample to stay under threshold")
	}
}
