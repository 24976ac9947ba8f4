package acquire

import (
	"context"
	"fmt"
	"sync"

	"github.com/y437li/stockagent/pkg/core/types"
)

// ErrProviderUnavailable is the ProviderUnavailable error taxonomy entry
// (spec §7): no acquisition provider passed the startup probe.
type ErrProviderUnavailable struct {
	Kind Kind
}

func (e *ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("acquisition provider unavailable: cannot fetch %s", e.Kind)
}

// Registry probes candidate providers at startup in a fixed order and
// routes every subsequent call to the first that passed. There is no
// per-call failover: providers are not bit-compatible with one another
// (spec §4.1).
type Registry struct {
	mu           sync.RWMutex
	candidates   []Provider // ordered primary -> secondary -> tertiary
	active       Provider
	newsProvider NewsProvider
	newsOK       bool
	probeSymbol  string
}

// NewRegistry wires the candidate providers in probing order plus the
// independently-probed news provider.
func NewRegistry(candidates []Provider, news NewsProvider, probeSymbol string) *Registry {
	return &Registry{candidates: candidates, newsProvider: news, probeSymbol: probeSymbol}
}

// Init probes candidates in order with one representative call
// (daily-basic for the canonical probe symbol) and retains the first that
// returns a non-empty table. The news provider is probed the same way,
// independently. Initialization failure of the market-data side returns
// an error; the caller should still bring the pipeline up so that
// downstream fetches can surface structured "unavailable" errors rather
// than crashing (spec §4.1, §4.8).
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.candidates {
		table, err := p.Fetch(ctx, KindDailyBasic, r.probeSymbol, CanonicalizeWindow(""))
		if err != nil {
			fmt.Printf("⚠️  provider probe failed: %s: %v\n", p.Name(), err)
			continue
		}
		if !table.Empty() {
			r.active = p
			fmt.Printf("✅ acquisition provider selected: %s\n", p.Name())
			break
		}
		fmt.Printf("⚠️  provider probe returned empty table, skipping: %s\n", p.Name())
	}

	if r.newsProvider != nil {
		if table, err := r.newsProvider.Fetch(ctx, KindNewsTicker, r.probeSymbol, CanonicalizeWindow("")); err == nil && !table.Empty() {
			r.newsOK = true
			fmt.Printf("✅ news provider selected: %s\n", r.newsProvider.Name())
		} else {
			fmt.Printf("⚠️  news provider probe failed or empty: %v\n", err)
		}
	}

	if r.active == nil {
		return fmt.Errorf("acquisition: no provider passed startup probe out of %d candidates", len(r.candidates))
	}
	return nil
}

// ActiveProviderName reports the provider selected by Init, or "" before
// initialization / if none passed the probe.
func (r *Registry) ActiveProviderName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return ""
	}
	return r.active.Name()
}

// Fetch routes kind to the active provider. If kind is trade-date-only and
// the first call returns an empty table, it retries up to 5 preceding
// calendar days (trade-date fallback, the only automatic retry in this
// layer) before giving up and returning the last empty result.
func (r *Registry) Fetch(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error) {
	r.mu.RLock()
	active := r.active
	r.mu.RUnlock()

	if active == nil {
		return types.Table{}, &ErrProviderUnavailable{Kind: kind}
	}

	if !TradeDateOnlyKinds[kind] {
		return active.Fetch(ctx, kind, symbol, w)
	}

	table, err := active.Fetch(ctx, kind, symbol, w)
	if err != nil || !table.Empty() {
		return table, err
	}
	for day := 1; day <= 5; day++ {
		table, err = active.Fetch(ctx, kind, symbol, w.PrecedingDay(day))
		if err != nil {
			return table, err
		}
		if !table.Empty() {
			return table, nil
		}
	}
	return table, nil
}

// FetchNews routes a news kind to the independently-selected news provider.
func (r *Registry) FetchNews(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.newsOK || r.newsProvider == nil {
		return types.Table{}, &ErrProviderUnavailable{Kind: kind}
	}
	return r.newsProvider.Fetch(ctx, kind, symbol, w)
}
