package acquire

import (
	"strconv"
	"strings"

	"github.com/y437li/stockagent/pkg/core/types"
)

// ResolveChineseUnit converts a Chinese-unit-suffixed numeral ("1.23亿",
// "456.7万") to its raw float value. Plain numerals pass through unchanged.
// This is the homogenization step spec §4.1 requires for northbound-fund
// outputs (and is reused by any other vendor field carrying the same
// suffix convention).
func ResolveChineseUnit(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "亿"):
		multiplier = 1e8
		s = strings.TrimSuffix(s, "亿")
	case strings.HasSuffix(s, "万"):
		multiplier = 1e4
		s = strings.TrimSuffix(s, "万")
	}
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * multiplier, true
}

// NorthboundColumns is the canonical six-field schema spec §4.1 mandates
// for northbound-fund outputs regardless of which provider served them.
var NorthboundColumns = []string{
	"trade_date", "net_buy", "buy_value", "sell_value", "cumulative_net_buy", "daily_inflow",
}

// HomogenizeNorthbound re-keys and unit-resolves a raw northbound-fund
// table (whose columns vary per vendor) into the canonical six-field
// shape. rawColumnMap maps the vendor's native column name to the
// canonical name it corresponds to; columns absent from the map are
// dropped. Cells carrying a Chinese unit suffix are numerically resolved.
func HomogenizeNorthbound(raw types.Table, rawColumnMap map[string]string) types.Table {
	// Build ordered canonical columns that are actually present.
	present := map[string]int{} // canonical name -> raw index
	for i, col := range raw.Columns {
		if canon, ok := rawColumnMap[col]; ok {
			present[canon] = i
		}
	}
	out := types.Table{}
	var rawIdx []int
	for _, canon := range NorthboundColumns {
		if i, ok := present[canon]; ok {
			out.Columns = append(out.Columns, canon)
			rawIdx = append(rawIdx, i)
		}
	}
	for _, row := range raw.Rows {
		newRow := make(types.Row, 0, len(rawIdx))
		for j, col := range out.Columns {
			cell := row[rawIdx[j]]
			if col == "trade_date" {
				newRow = append(newRow, cell)
				continue
			}
			if cell.Type == types.CellString {
				if v, ok := ResolveChineseUnit(cell.S); ok {
					newRow = append(newRow, types.FloatCell(v))
					continue
				}
			}
			newRow = append(newRow, cell)
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

// RenameColumns translates a vendor's localized/native column names to the
// canonical English names used throughout the pipeline (spec §4.1). Columns
// without a mapping entry keep their original name.
func RenameColumns(t types.Table, nameMap map[string]string) types.Table {
	out := types.Table{Columns: make([]string, len(t.Columns)), Rows: t.Rows}
	for i, c := range t.Columns {
		if canon, ok := nameMap[c]; ok {
			out.Columns[i] = canon
		} else {
			out.Columns[i] = c
		}
	}
	return out
}
