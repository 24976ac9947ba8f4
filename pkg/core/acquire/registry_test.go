package acquire

import (
	"context"
	"errors"
	"testing"

	"github.com/y437li/stockagent/pkg/core/types"
)

type mockProvider struct {
	name      string
	probeErr  error
	probeData types.Table
	onFetch   func(kind Kind, symbol string, w Window) (types.Table, error)
	probed    bool
}

func (m *mockProvider) Name() string { return m.name }

// Fetch answers the first daily_basic call (the startup probe) with
// probeData/probeErr; every later call goes to onFetch when it is set.
func (m *mockProvider) Fetch(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error) {
	if m.onFetch == nil || (kind == KindDailyBasic && !m.probed) {
		m.probed = true
		return m.probeData, m.probeErr
	}
	return m.onFetch(kind, symbol, w)
}

func nonEmptyTable() types.Table {
	return types.Table{Columns: []string{"x"}, Rows: []types.Row{{types.IntCell(1)}}}
}

func TestRegistry_ProbesInFixedOrder(t *testing.T) {
	primary := &mockProvider{name: "primary", probeErr: errors.New("boom")}
	secondary := &mockProvider{name: "secondary", probeData: types.Table{}} // empty, not an error
	tertiary := &mockProvider{name: "tertiary", probeData: nonEmptyTable()}

	r := NewRegistry([]Provider{primary, secondary, tertiary}, nil, "000001.SZ")
	if err := r.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if r.ActiveProviderName() != "tertiary" {
		t.Fatalf("selected provider = %s, want tertiary (S4 scenario)", r.ActiveProviderName())
	}
}

func TestRegistry_AllProbesFail_InitErrors(t *testing.T) {
	primary := &mockProvider{name: "primary", probeErr: errors.New("down")}
	r := NewRegistry([]Provider{primary}, nil, "000001.SZ")
	if err := r.Init(context.Background()); err == nil {
		t.Fatal("expected Init to fail when no provider passes the probe")
	}
	if _, err := r.Fetch(context.Background(), KindIncome, "000001.SZ", CanonicalizeWindow("")); err == nil {
		t.Fatal("expected unavailable error on Fetch after failed Init")
	}
}

func TestRegistry_TradeDateFallback(t *testing.T) {
	calls := 0
	primary := &mockProvider{
		name:      "primary",
		probeData: nonEmptyTable(),
		onFetch: func(kind Kind, symbol string, w Window) (types.Table, error) {
			calls++
			if calls < 4 {
				return types.Table{}, nil // empty, not error
			}
			return nonEmptyTable(), nil
		},
	}
	r := NewRegistry([]Provider{primary}, nil, "000001.SZ")
	if err := r.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	table, err := r.Fetch(context.Background(), KindDailyBasic, "000001.SZ", CanonicalizeWindow("20250914"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if table.Empty() {
		t.Fatal("expected trade-date fallback to eventually find a non-empty table")
	}
	if calls != 4 {
		t.Fatalf("calls = %d, want 4 (1 initial + 3 fallback days)", calls)
	}
}

func TestRegistry_TradeDateFallback_GivesUpAfterFive(t *testing.T) {
	primary := &mockProvider{
		name:      "primary",
		probeData: nonEmptyTable(),
		onFetch: func(kind Kind, symbol string, w Window) (types.Table, error) {
			return types.Table{}, nil
		},
	}
	r := NewRegistry([]Provider{primary}, nil, "000001.SZ")
	_ = r.Init(context.Background())

	table, err := r.Fetch(context.Background(), KindDailyBasic, "000001.SZ", CanonicalizeWindow("20250914"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !table.Empty() {
		t.Fatal("expected empty table after exhausting fallback window")
	}
}

func TestRegistry_NonTradeDateKind_NoFallback(t *testing.T) {
	calls := 0
	primary := &mockProvider{
		name:      "primary",
		probeData: nonEmptyTable(),
		onFetch: func(kind Kind, symbol string, w Window) (types.Table, error) {
			calls++
			return types.Table{}, nil
		},
	}
	r := NewRegistry([]Provider{primary}, nil, "000001.SZ")
	_ = r.Init(context.Background())

	if _, err := r.Fetch(context.Background(), KindIncome, "000001.SZ", CanonicalizeWindow("")); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no automatic retry for window-based kinds)", calls)
	}
}
