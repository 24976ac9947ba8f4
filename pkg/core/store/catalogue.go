package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// StockBasic is one row of the stock_basic catalogue table: the static
// symbol/name/industry/listing metadata the pipeline reads once at
// initialization rather than re-fetching from a provider every run.
type StockBasic struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	ListDate string `json:"list_date"`
	Market   string `json:"market"`
}

// TradeDay is one row of the trade_cal table: whether a given calendar
// date is an A-share trading day. The acquire package's trade-date
// fallback does not read it; it steps back calendar days.
type TradeDay struct {
	CalDate string `json:"cal_date"`
	IsOpen  bool   `json:"is_open"`
}

// StockCompany is one row of the stock_company table: issuer-level
// profile fields (chairman, main business, website).
type StockCompany struct {
	Symbol       string `json:"symbol"`
	ChairmanName string `json:"chairman"`
	MainBusiness string `json:"main_business"`
	Website      string `json:"website"`
}

// Catalogue is a read-only facade over the one-shot bootstrap tables
// (spec §6.5: "a separate, one-shot operation populates a catalogue
// table ... that the pipeline reads at initialization"). Grounded on the
// teacher's AnalysisRepo pgx query shape, re-pointed at the three
// catalogue tables instead of a single JSONB blob.
type Catalogue struct{}

func NewCatalogue() *Catalogue {
	return &Catalogue{}
}

// StockBasic looks up the static metadata row for a symbol.
func (c *Catalogue) StockBasic(ctx context.Context, symbol string) (*StockBasic, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("catalogue: database pool not initialized")
	}

	query := `SELECT symbol, name, industry, list_date, market FROM stock_basic WHERE symbol = $1`
	var sb StockBasic
	err := pool.QueryRow(ctx, query, symbol).Scan(&sb.Symbol, &sb.Name, &sb.Industry, &sb.ListDate, &sb.Market)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("catalogue: no stock_basic row for %s", symbol)
		}
		return nil, fmt.Errorf("catalogue: query stock_basic: %w", err)
	}
	return &sb, nil
}

// StockCompany looks up the issuer profile row for a symbol.
func (c *Catalogue) StockCompany(ctx context.Context, symbol string) (*StockCompany, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("catalogue: database pool not initialized")
	}

	query := `SELECT symbol, chairman, main_business, website FROM stock_company WHERE symbol = $1`
	var sc StockCompany
	err := pool.QueryRow(ctx, query, symbol).Scan(&sc.Symbol, &sc.ChairmanName, &sc.MainBusiness, &sc.Website)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("catalogue: no stock_company row for %s", symbol)
		}
		return nil, fmt.Errorf("catalogue: query stock_company: %w", err)
	}
	return &sc, nil
}

// IsTradingDay reports whether cal_date (YYYYMMDD) is an open trading
// day. The acquire package's trade-date fallback does not call it.
func (c *Catalogue) IsTradingDay(ctx context.Context, calDate string) (bool, error) {
	pool := GetPool()
	if pool == nil {
		return false, fmt.Errorf("catalogue: database pool not initialized")
	}

	query := `SELECT is_open FROM trade_cal WHERE cal_date = $1`
	var open bool
	err := pool.QueryRow(ctx, query, calDate).Scan(&open)
	if err != nil {
		if err == pgx.ErrNoRows {
			// No calendar row means the catalogue hasn't been bootstrapped for
			// this date; that is reported as "not open" rather than as an
			// error.
			return false, nil
		}
		return false, fmt.Errorf("catalogue: query trade_cal: %w", err)
	}
	return open, nil
}

// PrecedingTradingDays returns the n most recent open trading days at or
// before calDate, most-recent first. The acquire package's up-to-5-day
// trade-date fallback does not call it; it walks back calendar days.
func (c *Catalogue) PrecedingTradingDays(ctx context.Context, calDate string, n int) ([]string, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("catalogue: database pool not initialized")
	}

	query := `SELECT cal_date FROM trade_cal WHERE cal_date <= $1 AND is_open = true ORDER BY cal_date DESC LIMIT $2`
	rows, err := pool.Query(ctx, query, calDate, n)
	if err != nil {
		return nil, fmt.Errorf("catalogue: query trade_cal range: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("catalogue: scan trade_cal row: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
