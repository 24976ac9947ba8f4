package analysis

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseAnalysisRequest_GETFromQueryString(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/stream_analysis?stock_code=600519.SH&end_date=20250914", nil)
	req, ok := parseAnalysisRequest(r)
	if !ok {
		t.Fatal("expected ok=true for a GET request with stock_code set")
	}
	if req.StockCode != "600519.SH" || req.EndDate != "20250914" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestParseAnalysisRequest_GETMissingStockCode(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/stream_analysis", nil)
	_, ok := parseAnalysisRequest(r)
	if ok {
		t.Fatal("expected ok=false when stock_code is missing")
	}
}

func TestParseAnalysisRequest_POSTFromJSONBody(t *testing.T) {
	body := strings.NewReader(`{"stock_code":"000001.SZ","end_date":"20250601"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/stream_analysis", body)
	req, ok := parseAnalysisRequest(r)
	if !ok {
		t.Fatal("expected ok=true for a well-formed POST body")
	}
	if req.StockCode != "000001.SZ" || req.EndDate != "20250601" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestParseAnalysisRequest_POSTMalformedBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/stream_analysis", strings.NewReader("not json"))
	_, ok := parseAnalysisRequest(r)
	if ok {
		t.Fatal("expected ok=false for a malformed POST body")
	}
}

func TestBuildRequest_NoCatalogueFallsBackToSymbolAsCompanyName(t *testing.T) {
	h := &Handler{}
	req := h.buildRequest(nil, analysisRequest{StockCode: "600519.SH", EndDate: "20250914"})
	if req.Symbol != "600519.SH" {
		t.Errorf("expected symbol 600519.SH, got %s", req.Symbol)
	}
	if req.CompanyName != "600519.SH" {
		t.Errorf("expected company name to fall back to the symbol, got %s", req.CompanyName)
	}
}
