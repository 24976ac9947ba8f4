package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/y437li/stockagent/pkg/core/types"
)

// tertiaryKindPath mirrors secondaryKindPath but against a third vendor
// whose response uses localized (Chinese) field names; tertiaryColumnMap
// below is what spec §4.1 calls out explicitly ("translating the tertiary
// provider's localized columns to the canonical English names").
var tertiaryKindPath = map[Kind]string{
	KindFinancialIndicators: "/api/caibao/zhibiao",
	KindDailyBasic:          "/api/gupiao/meirizhibiao",
	KindDividends:           "/api/fenhong/mingxi",
	KindIncome:              "/api/caibao/lirunbiao",
	KindBalance:             "/api/caibao/zichanfuzhaibiao",
	KindCashflow:            "/api/caibao/xianjinliuliangbiao",
	KindForecasts:           "/api/yeji/yugao",
	KindExpress:             "/api/yeji/kuaibao",
	KindMainBusiness:        "/api/gongsi/zhuyingyewu",
	KindKlineDaily:          "/api/hangqing/rixian",
	KindKlineWeekly:         "/api/hangqing/zhouxian",
	KindKlineMonthly:        "/api/hangqing/yuexian",
	KindFactorIndicator:     "/api/yinzi/zhibiao",
	KindDailyBasicEx:        "/api/gupiao/xingqing",
	KindLimitUpList:         "/api/zhangting/mingdan",
	KindTop10Holders:        "/api/gudong/qianshi",
	KindFloatHolders:        "/api/gudong/liutongqianshi",
	KindHolderCount:         "/api/gudong/renshu",
	KindMoneyFlowStock:      "/api/zijin/geguliuxiang",
	KindMoneyFlowSector:     "/api/zijin/bankuailiuxiang",
	KindMoneyFlowIndus:      "/api/zijin/hangyeliuxiang",
	KindMoneyFlowMarket:     "/api/zijin/dashiliuxiang",
	KindNorthbound:          "/api/beixiang/zijinliuxiang",
	KindDragonTopList:       "/api/longhubang/mingdan",
	KindDragonTopInst:       "/api/longhubang/jigou",
	KindChipDistrib:         "/api/choumahua/fenbu",
}

// tertiaryColumnMap translates this vendor's localized field names into
// canonical English column names. Only the commonly-requested fields are
// listed; unmapped columns pass through as-is (RenameColumns semantics).
var tertiaryColumnMap = map[string]string{
	"日期":     "trade_date",
	"代码":     "ts_code",
	"名称":     "name",
	"开盘":     "open",
	"收盘":     "close",
	"最高":     "high",
	"最低":     "low",
	"成交量":    "vol",
	"成交额":    "amount",
	"涨跌幅":    "pct_chg",
	"换手率":    "turnover_rate",
	"市盈率":    "pe",
	"市净率":    "pb",
	"总市值":    "total_mv",
	"流通市值":   "circ_mv",
	"净利润":    "net_profit",
	"营业收入":   "revenue",
	"股东人数":   "holder_num",
	"北向资金":   "north_money",
	"净买入":    "net_buy",
	"买入金额":   "buy_value",
	"卖出金额":   "sell_value",
	"累计净买入":  "cumulative_net_buy",
	"当日流入":   "daily_inflow",
}

type TertiaryProvider struct {
	baseURL string
	client  *http.Client
}

func NewTertiaryProvider() *TertiaryProvider {
	return &TertiaryProvider{
		baseURL: envOr("TERTIARY_PROVIDER_URL", "https://api.tertiary-quote.example"),
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (p *TertiaryProvider) Name() string { return "tertiary" }

func (p *TertiaryProvider) Fetch(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error) {
	path, ok := tertiaryKindPath[kind]
	if !ok {
		return types.Table{}, fmt.Errorf("tertiary provider: unsupported kind %s", kind)
	}

	q := url.Values{}
	q.Set("code", symbol)
	q.Set("kaishi", w.StartYYYYMMDD())
	q.Set("jieshu", w.EndYYYYMMDD())
	if TradeDateOnlyKinds[kind] {
		q.Set("jiaoyiri", w.EndYYYYMMDD())
	}

	reqURL := p.baseURL + path + "?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Table{}, fmt.Errorf("tertiary provider: build request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return types.Table{}, fmt.Errorf("tertiary provider: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Table{}, fmt.Errorf("tertiary provider: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Table{}, fmt.Errorf("tertiary provider: status %d: %s", resp.StatusCode, string(raw))
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return types.Table{}, fmt.Errorf("tertiary provider: decode response: %w", err)
	}

	localized := recordsToTable(records)
	table := RenameColumns(localized, tertiaryColumnMap)
	if kind == KindNorthbound {
		table = HomogenizeNorthbound(table, identityNorthboundMap)
	}
	return table, nil
}

// identityNorthboundMap is applied after RenameColumns already translated
// the vendor's Chinese column names to the canonical ones above, so the
// homogenization step here is identity plus unit resolution.
var identityNorthboundMap = map[string]string{
	"trade_date":         "trade_date",
	"net_buy":            "net_buy",
	"buy_value":          "buy_value",
	"sell_value":         "sell_value",
	"cumulative_net_buy": "cumulative_net_buy",
	"daily_inflow":       "daily_inflow",
}
