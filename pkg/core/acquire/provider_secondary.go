package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/y437li/stockagent/pkg/core/types"
)

// secondaryKindPath maps each Kind to the secondary vendor's REST path
// (akshare-style: one endpoint per dataset, symbol/date as query params).
var secondaryKindPath = map[Kind]string{
	KindFinancialIndicators: "/stock_financial_analysis_indicator",
	KindDailyBasic:          "/stock_a_indicator_lg",
	KindDividends:           "/stock_fhps_detail",
	KindIncome:              "/stock_profit_sheet_by_report",
	KindBalance:             "/stock_balance_sheet_by_report",
	KindCashflow:            "/stock_cash_flow_sheet_by_report",
	KindForecasts:           "/stock_yjyg",
	KindExpress:             "/stock_yjkb",
	KindMainBusiness:        "/stock_zygc",
	KindKlineDaily:          "/stock_zh_a_hist",
	KindKlineWeekly:         "/stock_zh_a_hist",
	KindKlineMonthly:        "/stock_zh_a_hist",
	KindFactorIndicator:     "/stock_a_lg_indicator",
	KindDailyBasicEx:        "/stock_zh_a_spot_em",
	KindLimitUpList:         "/stock_zt_pool_em",
	KindTop10Holders:        "/stock_gdfx_top_10_em",
	KindFloatHolders:        "/stock_gdfx_free_top_10_em",
	KindHolderCount:         "/stock_zh_a_gdhs",
	KindMoneyFlowStock:      "/stock_individual_fund_flow",
	KindMoneyFlowSector:     "/stock_sector_fund_flow_rank",
	KindMoneyFlowIndus:      "/stock_fund_flow_industry",
	KindMoneyFlowMarket:     "/stock_market_fund_flow",
	KindNorthbound:          "/stock_hsgt_fund_flow_summary_em",
	KindDragonTopList:       "/stock_lhb_detail_em",
	KindDragonTopInst:       "/stock_lhb_jgmmtj_em",
	KindChipDistrib:         "/stock_cyq_em",
}

// SecondaryProvider adapts a REST data source returning one JSON array of
// flat objects per dataset (rather than the columnar fields+items shape the
// primary vendor uses); columns are derived from the union of object keys
// across rows, sorted for determinism.
type SecondaryProvider struct {
	baseURL string
	client  *http.Client
}

func NewSecondaryProvider() *SecondaryProvider {
	return &SecondaryProvider{
		baseURL: envOr("SECONDARY_PROVIDER_URL", "https://api.secondary-quote.example"),
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (p *SecondaryProvider) Name() string { return "secondary" }

func (p *SecondaryProvider) Fetch(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error) {
	path, ok := secondaryKindPath[kind]
	if !ok {
		return types.Table{}, fmt.Errorf("secondary provider: unsupported kind %s", kind)
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("start_date", w.StartYYYYMMDD())
	q.Set("end_date", w.EndYYYYMMDD())
	if TradeDateOnlyKinds[kind] {
		q.Set("trade_date", w.EndYYYYMMDD())
	}
	switch kind {
	case KindKlineWeekly:
		q.Set("period", "weekly")
	case KindKlineMonthly:
		q.Set("period", "monthly")
	default:
		q.Set("period", "daily")
	}

	reqURL := p.baseURL + path + "?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Table{}, fmt.Errorf("secondary provider: build request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return types.Table{}, fmt.Errorf("secondary provider: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Table{}, fmt.Errorf("secondary provider: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Table{}, fmt.Errorf("secondary provider: status %d: %s", resp.StatusCode, string(raw))
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return types.Table{}, fmt.Errorf("secondary provider: decode response: %w", err)
	}

	table := recordsToTable(records)
	if kind == KindNorthbound {
		table = HomogenizeNorthbound(table, secondaryNorthboundMap)
	}
	return table, nil
}

var secondaryNorthboundMap = map[string]string{
	"date":            "trade_date",
	"net_purchases":   "net_buy",
	"buy_amount":      "buy_value",
	"sell_amount":     "sell_value",
	"cum_net":         "cumulative_net_buy",
	"inflow_today":    "daily_inflow",
}

// recordsToTable builds a Table from a slice of flat JSON objects, deriving
// the column list from the sorted union of keys so output is deterministic
// regardless of per-record key ordering from the decoder.
func recordsToTable(records []map[string]interface{}) types.Table {
	colSet := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			colSet[k] = true
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	t := types.Table{Columns: cols, Rows: make([]types.Row, 0, len(records))}
	for _, rec := range records {
		row := make(types.Row, 0, len(cols))
		for _, c := range cols {
			row = append(row, cellFromAny(rec[c]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
