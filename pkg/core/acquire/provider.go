package acquire

import (
	"context"

	"github.com/y437li/stockagent/pkg/core/types"
)

// Kind is a fetch operation drawn from the closed set in spec §4.1.
type Kind string

const (
	// Fundamentals
	KindFinancialIndicators Kind = "financial_indicators"
	KindDailyBasic          Kind = "daily_basic"
	KindDividends           Kind = "dividends"
	KindIncome              Kind = "income"
	KindBalance             Kind = "balance"
	KindCashflow            Kind = "cashflow"
	KindForecasts           Kind = "forecasts"
	KindExpress             Kind = "express"
	KindMainBusiness        Kind = "main_business"

	// Technicals
	KindKlineDaily      Kind = "kline_daily"
	KindKlineWeekly     Kind = "kline_weekly"
	KindKlineMonthly    Kind = "kline_monthly"
	KindFactorIndicator Kind = "factor_indicators"
	KindDailyBasicEx    Kind = "daily_basic_enhanced"
	KindLimitUpList     Kind = "limit_up_list"

	// Fund-flow
	KindTop10Holders    Kind = "top10_holders"
	KindFloatHolders    Kind = "float_holders"
	KindHolderCount     Kind = "holder_count"
	KindMoneyFlowStock  Kind = "moneyflow_stock"
	KindMoneyFlowSector Kind = "moneyflow_sector"
	KindMoneyFlowIndus  Kind = "moneyflow_industry"
	KindMoneyFlowMarket Kind = "moneyflow_market"
	KindNorthbound      Kind = "moneyflow_hsgt"
	KindDragonTopList   Kind = "dragon_top_list"
	KindDragonTopInst   Kind = "dragon_top_inst"
	KindChipDistrib     Kind = "chip_distribution"

	// News
	KindNewsTicker      Kind = "news_ticker"
	KindNewsMajor       Kind = "news_major"
	KindNewsNationwide  Kind = "news_national_broadcast"
)

// TradeDateOnlyKinds accept only a single trade-date rather than a window;
// for these the acquisition layer uses Window.End and, if the resulting
// table is empty, retries up to 5 preceding calendar days (spec §4.1).
var TradeDateOnlyKinds = map[Kind]bool{
	KindDailyBasic:      true,
	KindDailyBasicEx:    true,
	KindLimitUpList:     true,
	KindTop10Holders:    true,
	KindFloatHolders:    true,
	KindChipDistrib:     true,
	KindDragonTopList:   true,
	KindDragonTopInst:   true,
}

// Provider implements the full fetch-operation surface against one upstream
// data source. Column/type normalization across vendor boundaries is the
// adapter's responsibility (spec §4.1); callers only ever see canonical
// column names.
type Provider interface {
	// Name identifies the provider for logging and for the "selected
	// provider" record kept by the Registry.
	Name() string
	// Fetch performs one typed fetch. An empty, non-error Table is a valid
	// response (spec's Empty-vs-error distinction); adapters must never
	// panic and must wrap transport/schema failures as a returned error.
	Fetch(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error)
}

// NewsProvider is probed and selected independently of the three market-data
// providers (spec §4.1 "the news source is probed independently").
type NewsProvider interface {
	Name() string
	Fetch(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error)
}
