package analyst

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/report"
	"github.com/y437li/stockagent/pkg/core/summarize"
	"github.com/y437li/stockagent/pkg/core/types"
)

type stubProvider struct {
	response string
}

func (p *stubProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return p.response, nil
}
func (p *stubProvider) AdaptInstructions(raw string) string { return raw }

type stubAcquireProvider struct {
	name    string
	onFetch func(kind acquire.Kind) (types.Table, error)
}

func (p *stubAcquireProvider) Name() string { return p.name }
func (p *stubAcquireProvider) Fetch(ctx context.Context, kind acquire.Kind, symbol string, w acquire.Window) (types.Table, error) {
	return p.onFetch(kind)
}

func nonEmptyTable() types.Table {
	return types.Table{Columns: []string{"close"}, Rows: []types.Row{{types.FloatCell(1)}}}
}

func newTestBase(t *testing.T) *BaseAnalyst {
	registry := acquire.NewRegistry([]acquire.Provider{&stubAcquireProvider{
		name: "stub",
		onFetch: func(kind acquire.Kind) (types.Table, error) { return nonEmptyTable(), nil },
	}}, nil, "600519.SH")
	if err := registry.Init(context.Background()); err != nil {
		t.Fatalf("registry init: %v", err)
	}
	return &BaseAnalyst{
		Registry: registry,
		Engine:   summarize.NewEngine(&stubProvider{response: "摘要内容"}),
	}
}

func TestFetchAndSummarize_SuccessNotifiesStartAndEnd(t *testing.T) {
	b := newTestBase(t)
	var events []string
	b.OnTool = func(node, tool, phase, detail string) {
		events = append(events, phase)
	}

	spec := interfaceSpec{kind: acquire.KindKlineDaily, objective: "日K线价格走势"}
	ir := b.fetchAndSummarize(context.Background(), "technical", summarize.ObjectiveTechnical, spec, "600519.SH", acquire.CanonicalizeWindow(""))

	if ir.Status != report.StatusSuccess {
		t.Fatalf("expected success status, got %s", ir.Status)
	}
	if len(events) != 2 || events[0] != "start" || events[1] != "end" {
		t.Fatalf("expected [start end], got %v", events)
	}
}

func TestFetchAndSummarize_FetchErrorYieldsStatusError(t *testing.T) {
	// The probe symbol call succeeds (so Init selects this provider) but
	// every other kind fails, so Fetch (not the probe) is what errors.
	b := &BaseAnalyst{
		Registry: acquire.NewRegistry([]acquire.Provider{&stubAcquireProvider{
			name: "stub",
			onFetch: func(kind acquire.Kind) (types.Table, error) {
				if kind == acquire.KindDailyBasic {
					return nonEmptyTable(), nil
				}
				return types.Table{}, errors.New("boom")
			},
		}}, nil, "600519.SH"),
		Engine: summarize.NewEngine(&stubProvider{response: "摘要"}),
	}
	if err := b.Registry.Init(context.Background()); err != nil {
		t.Fatalf("registry init: %v", err)
	}

	spec := interfaceSpec{kind: acquire.KindKlineDaily, objective: "日K线价格走势"}
	ir := b.fetchAndSummarize(context.Background(), "technical", summarize.ObjectiveTechnical, spec, "600519.SH", acquire.CanonicalizeWindow(""))

	if ir.Status != report.StatusError {
		t.Fatalf("expected error status, got %s", ir.Status)
	}
}

func TestRunInterfaces_AggregatesAllSpecs(t *testing.T) {
	b := newTestBase(t)
	specs := []interfaceSpec{
		{kind: acquire.KindKlineDaily, objective: "日K线"},
		{kind: acquire.KindKlineWeekly, objective: "周K线"},
		{kind: acquire.KindKlineMonthly, objective: "月K线"},
	}
	results := b.runInterfaces(context.Background(), "technical", summarize.ObjectiveTechnical, specs, "600519.SH", acquire.CanonicalizeWindow(""))

	if len(results) != len(specs) {
		t.Fatalf("expected %d results, got %d", len(specs), len(results))
	}
	for _, spec := range specs {
		if _, ok := results[string(spec.kind)]; !ok {
			t.Errorf("missing result for %s", spec.kind)
		}
	}
}

func TestCombinedSummary_SkipsErrorsAndEmpty(t *testing.T) {
	interfaces := map[string]report.InterfaceResult{
		"a": {Status: report.StatusSuccess, Summary: "第一段"},
		"b": {Status: report.StatusError, Summary: "不应出现"},
		"c": {Status: report.StatusSuccess, Summary: ""},
		"d": {Status: report.StatusSuccess, Summary: "第二段"},
	}
	got := combinedSummary(interfaces)
	if got == "" {
		t.Fatal("expected non-empty combined summary")
	}
	if want := "不应出现"; strings.Contains(got, want) {
		t.Fatalf("combined summary should not include error-status text, got %q", got)
	}
}

func TestRenderRawRows_PipeJoinsCells(t *testing.T) {
	table := types.Table{
		Columns: []string{"a", "b"},
		Rows:    []types.Row{{types.StringCell("x"), types.IntCell(1)}},
	}
	rows := renderRawRows(table)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}
