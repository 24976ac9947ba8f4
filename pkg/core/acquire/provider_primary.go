package acquire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/y437li/stockagent/pkg/core/types"
)

// primaryKindAPI maps each Kind to the primary vendor's RPC method name
// (tushare-style single endpoint, method dispatched by field).
var primaryKindAPI = map[Kind]string{
	KindFinancialIndicators: "fina_indicator",
	KindDailyBasic:          "daily_basic",
	KindDividends:           "dividend",
	KindIncome:              "income",
	KindBalance:             "balancesheet",
	KindCashflow:            "cashflow",
	KindForecasts:           "forecast",
	KindExpress:             "express",
	KindMainBusiness:        "fina_mainbz",
	KindKlineDaily:          "daily",
	KindKlineWeekly:         "weekly",
	KindKlineMonthly:        "monthly",
	KindFactorIndicator:     "stk_factor",
	KindDailyBasicEx:        "bak_daily",
	KindLimitUpList:         "limit_list_d",
	KindTop10Holders:        "top10_holders",
	KindFloatHolders:        "top10_floatholders",
	KindHolderCount:         "stk_holdernumber",
	KindMoneyFlowStock:      "moneyflow",
	KindMoneyFlowSector:     "moneyflow_ind_dc",
	KindMoneyFlowIndus:      "moneyflow_ind_ths",
	KindMoneyFlowMarket:     "moneyflow_mkt_dc",
	KindNorthbound:          "moneyflow_hsgt",
	KindDragonTopList:       "top_list",
	KindDragonTopInst:       "top_inst",
	KindChipDistrib:         "cyq_perf",
}

// PrimaryProvider is the canonical first-probed vendor adapter. The concrete
// wire protocol is an external collaborator (spec §1 explicitly scopes out
// "any particular ... data vendor's wire protocol"); this adapter shows the
// shape every vendor adapter follows: resolve endpoint, call, decode into a
// generic row-oriented response, project into types.Table.
type PrimaryProvider struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewPrimaryProvider() *PrimaryProvider {
	return &PrimaryProvider{
		baseURL: envOr("PRIMARY_PROVIDER_URL", "https://api.primary-quote.example/dataapi"),
		token:   os.Getenv("PRIMARY_PROVIDER_TOKEN"),
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (p *PrimaryProvider) Name() string { return "primary" }

type primaryRequest struct {
	APIName string                 `json:"api_name"`
	Token   string                 `json:"token"`
	Params  map[string]string      `json:"params"`
	Fields  string                 `json:"fields,omitempty"`
}

type primaryResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string        `json:"fields"`
		Items  [][]interface{} `json:"items"`
	} `json:"data"`
}

func (p *PrimaryProvider) Fetch(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error) {
	apiName, ok := primaryKindAPI[kind]
	if !ok {
		return types.Table{}, fmt.Errorf("primary provider: unsupported kind %s", kind)
	}

	req := primaryRequest{
		APIName: apiName,
		Token:   p.token,
		Params: map[string]string{
			"ts_code":    symbol,
			"start_date": w.StartYYYYMMDD(),
			"end_date":   w.EndYYYYMMDD(),
		},
	}
	if TradeDateOnlyKinds[kind] {
		req.Params["trade_date"] = w.EndYYYYMMDD()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return types.Table{}, fmt.Errorf("primary provider: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return types.Table{}, fmt.Errorf("primary provider: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return types.Table{}, fmt.Errorf("primary provider: request %s: %w", apiName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Table{}, fmt.Errorf("primary provider: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Table{}, fmt.Errorf("primary provider: status %d: %s", resp.StatusCode, string(raw))
	}

	var pr primaryResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return types.Table{}, fmt.Errorf("primary provider: decode response: %w", err)
	}
	if pr.Code != 0 {
		return types.Table{}, fmt.Errorf("primary provider: api error %d: %s", pr.Code, pr.Msg)
	}

	table := rowsToTable(pr.Data.Fields, pr.Data.Items)
	if kind == KindNorthbound {
		table = HomogenizeNorthbound(table, primaryNorthboundMap)
	}
	return table, nil
}

var primaryNorthboundMap = map[string]string{
	"trade_date":   "trade_date",
	"north_money":  "net_buy",
	"north_buy":    "buy_value",
	"north_sell":   "sell_value",
	"accumulate":   "cumulative_net_buy",
	"today_inflow": "daily_inflow",
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// rowsToTable projects a generic fields+items response into a types.Table,
// tagging each cell's type from its decoded Go value (json.Unmarshal into
// interface{} yields float64/string/bool/nil).
func rowsToTable(fields []string, items [][]interface{}) types.Table {
	t := types.Table{Columns: fields, Rows: make([]types.Row, 0, len(items))}
	for _, item := range items {
		row := make(types.Row, 0, len(item))
		for _, v := range item {
			row = append(row, cellFromAny(v))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func cellFromAny(v interface{}) types.Cell {
	switch x := v.(type) {
	case nil:
		return types.NullCell()
	case string:
		return types.StringCell(x)
	case float64:
		if x == float64(int64(x)) {
			return types.IntCell(int64(x))
		}
		return types.FloatCell(x)
	case bool:
		return types.BoolCell(x)
	default:
		return types.StringCell(fmt.Sprintf("%v", x))
	}
}
