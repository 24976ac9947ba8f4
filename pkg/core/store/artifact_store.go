// Package store implements the Artifact Store (on-disk, deterministic
// directory layout keyed by symbol/date, read-through cache for later
// pipeline stages) and the Catalogue (the static-data bootstrap read
// contract: stock_basic, trade_cal, stock_company).
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/y437li/stockagent/pkg/core/report"
)

// ArtifactStore persists tool outputs and analyst reports under
// <root>/<symbol>/<YYYYMMDD>/<name>.json (spec §4.5, §6.3) and serves as a
// read-through cache: Sentiment and Supervisor read previously written
// ToolResults rather than recomputing them.
//
// Grounded on the teacher's FSAPCache Hybrid Vault shape (accession-keyed
// file path + CacheEntry envelope), re-keyed to the spec's exact
// symbol/date/name layout. Pure stdlib os/encoding/json: this is exactly
// the concern the teacher's own file-side cache already solves with
// stdlib — no pack KV/cache library models a deterministic directory tree.
type ArtifactStore struct {
	root string
	mu   sync.Mutex // serializes directory creation; file writes are per-name disjoint
}

func NewArtifactStore(root string) *ArtifactStore {
	return &ArtifactStore{root: root}
}

// envelope is the small wrapper every persisted artifact carries (spec
// §6.3): either a `data` (ToolResult-shaped) or `text` (report-shaped)
// payload alongside the name/timestamp/period header.
type envelope struct {
	Name           string          `json:"tool,omitempty"`
	ReportType     string          `json:"report_type,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	AnalysisPeriod string          `json:"analysis_period"`
	Data           json.RawMessage `json:"data,omitempty"`
	Text           json.RawMessage `json:"text,omitempty"`
}

func (s *ArtifactStore) dir(symbol, date string) string {
	return filepath.Join(s.root, symbol, date)
}

func (s *ArtifactStore) path(symbol, date, name string) string {
	return filepath.Join(s.dir(symbol, date), name+".json")
}

// SaveToolResult writes a ToolResult artifact. Writes are write-once per
// name within a run and overwrite on retry (last-write-wins, spec
// invariant); no cross-request locking is attempted.
func (s *ArtifactStore) SaveToolResult(symbol, date, name string, tr report.ToolResult) error {
	dataJSON, err := json.Marshal(tr.Data)
	if err != nil {
		return fmt.Errorf("artifact store: marshal tool data: %w", err)
	}
	env := envelope{
		Name:           name,
		Timestamp:      tr.Timestamp,
		AnalysisPeriod: tr.AnalysisPeriod,
		Data:           dataJSON,
	}
	return s.writeEnvelope(symbol, date, name, env)
}

// SaveReport writes any of the report envelope shapes (AnalystReport,
// SupervisorReport, DebateReport) under the given name.
func (s *ArtifactStore) SaveReport(symbol, date, name, reportType string, period string, payload interface{}) error {
	textJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("artifact store: marshal report: %w", err)
	}
	env := envelope{
		ReportType:     reportType,
		Timestamp:      time.Now(),
		AnalysisPeriod: period,
		Text:           textJSON,
	}
	return s.writeEnvelope(symbol, date, name, env)
}

// SaveRaw writes an arbitrary JSON-marshalable value verbatim, used for the
// sentiment_input snapshot and the final analysis_summary index.
func (s *ArtifactStore) SaveRaw(symbol, date, name string, payload interface{}) error {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact store: marshal raw: %w", err)
	}
	if err := os.MkdirAll(s.dir(symbol, date), 0755); err != nil {
		return fmt.Errorf("artifact store: mkdir: %w", err)
	}
	return os.WriteFile(s.path(symbol, date, name), body, 0644)
}

func (s *ArtifactStore) writeEnvelope(symbol, date, name string, env envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir(symbol, date), 0755); err != nil {
		return fmt.Errorf("artifact store: mkdir: %w", err)
	}
	body, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact store: marshal envelope: %w", err)
	}
	return os.WriteFile(s.path(symbol, date, name), body, 0644)
}

// LoadToolResult implements the read-through cache contract
// (`load_tool_result(symbol, name, date)` in spec §4.5): Sentiment and
// Supervisor call this instead of recomputing. Returns (nil, false) if the
// artifact is absent, letting callers degrade to in-memory fallbacks.
func (s *ArtifactStore) LoadToolResult(symbol, date, name string) (*report.ToolResult, bool) {
	body, err := os.ReadFile(s.path(symbol, date, name))
	if err != nil {
		return nil, false
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	var data report.ToolResultData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, false
	}
	return &report.ToolResult{
		ToolName:       env.Name,
		Timestamp:      env.Timestamp,
		AnalysisPeriod: env.AnalysisPeriod,
		Data:           data,
	}, true
}

// LoadReport reads back a persisted report envelope into dst (a pointer to
// AnalystReport/SupervisorReport/DebateReport). Returns false if absent.
func (s *ArtifactStore) LoadReport(symbol, date, name string, dst interface{}) bool {
	body, err := os.ReadFile(s.path(symbol, date, name))
	if err != nil {
		return false
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}
	if err := json.Unmarshal(env.Text, dst); err != nil {
		return false
	}
	return true
}

// Exists reports whether an artifact with the given name has been written
// for this symbol/date.
func (s *ArtifactStore) Exists(symbol, date, name string) bool {
	_, err := os.Stat(s.path(symbol, date, name))
	return err == nil
}

// ListArtifacts enumerates the *.json file stems present for a
// symbol/date directory, used by the Result Manager's file-enumeration
// summary (component 9).
func (s *ArtifactStore) ListArtifacts(symbol, date string) ([]string, error) {
	entries, err := os.ReadDir(s.dir(symbol, date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".json" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(ext)])
	}
	return names, nil
}

// Root exposes the store's base directory, e.g. for the Result Manager to
// build client-facing download paths.
func (s *ArtifactStore) Root() string { return s.root }
