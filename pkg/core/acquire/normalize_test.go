package acquire

import (
	"testing"

	"github.com/y437li/stockagent/pkg/core/types"
)

func TestResolveChineseUnit(t *testing.T) {
	cases := map[string]float64{
		"1.23亿": 1.23e8,
		"456.7万": 456.7e4,
		"10":     10,
	}
	for in, want := range cases {
		got, ok := ResolveChineseUnit(in)
		if !ok || got != want {
			t.Errorf("ResolveChineseUnit(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
}

func TestHomogenizeNorthbound(t *testing.T) {
	raw := types.Table{
		Columns: []string{"trade_date", "north_money", "north_buy", "north_sell", "accumulate", "today_inflow"},
		Rows: []types.Row{
			{types.StringCell("20250914"), types.StringCell("1.5亿"), types.StringCell("3亿"), types.StringCell("1.5亿"), types.StringCell("10亿"), types.StringCell("2000万")},
		},
	}
	out := HomogenizeNorthbound(raw, primaryNorthboundMap)
	if len(out.Columns) != 6 {
		t.Fatalf("expected 6 canonical columns, got %d: %v", len(out.Columns), out.Columns)
	}
	idx := out.ColumnIndex()
	netBuy := out.Rows[0][idx["net_buy"]]
	if netBuy.F != 1.5e8 {
		t.Errorf("net_buy = %v, want 1.5e8", netBuy.F)
	}
}
