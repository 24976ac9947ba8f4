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

// newsKindPath maps the three news interfaces (spec §4.1) to the
// independent news vendor's REST paths.
var newsKindPath = map[Kind]string{
	KindNewsTicker:     "/news/ticker",
	KindNewsMajor:      "/news/major",
	KindNewsNationwide: "/news/broadcast",
}

// NewsSourceProvider is the independently-probed news vendor referenced by
// Registry.FetchNews. This is the plain headline-listing API consumed by
// analyst tasks directly (distinct from the richer crawl-based enrichment
// in pkg/core/news, which goes out to the open web rather than this vendor).
type NewsSourceProvider struct {
	baseURL string
	client  *http.Client
}

func NewNewsSourceProvider() *NewsSourceProvider {
	return &NewsSourceProvider{
		baseURL: envOr("NEWS_PROVIDER_URL", "https://api.news-quote.example"),
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (p *NewsSourceProvider) Name() string { return "news" }

func (p *NewsSourceProvider) Fetch(ctx context.Context, kind Kind, symbol string, w Window) (types.Table, error) {
	path, ok := newsKindPath[kind]
	if !ok {
		return types.Table{}, fmt.Errorf("news provider: unsupported kind %s", kind)
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("start_date", w.StartYYYYMMDD())
	q.Set("end_date", w.EndYYYYMMDD())

	reqURL := p.baseURL + path + "?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Table{}, fmt.Errorf("news provider: build request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return types.Table{}, fmt.Errorf("news provider: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Table{}, fmt.Errorf("news provider: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Table{}, fmt.Errorf("news provider: status %d: %s", resp.StatusCode, string(raw))
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return types.Table{}, fmt.Errorf("news provider: decode response: %w", err)
	}
	return recordsToTable(records), nil
}
