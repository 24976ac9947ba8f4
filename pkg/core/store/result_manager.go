package store

import (
	"fmt"
	"sort"
	"strings"
)

// ResultManager is a thin facade over the ArtifactStore plus a summary
// builder that enumerates produced files for a symbol (component 9; spec
// §2, grounded directly on original_source/core/result_manager.py's
// `get_result_summary`).
type ResultManager struct {
	store *ArtifactStore
}

func NewResultManager(s *ArtifactStore) *ResultManager {
	return &ResultManager{store: s}
}

// expectedArtifacts is the deterministic full set of names a complete run
// produces (spec §6.3 / §8 property 5).
var expectedArtifacts = []string{
	"fundamental_data", "tech_data", "fund_data", "news_data",
	"sentiment_input",
	"fundamental_report", "technical_report", "fund_report", "news_report",
	"sentiment_report", "supervisor_report",
	"analysis_summary",
}

// GetResultSummary enumerates the artifacts actually present for a
// symbol/date directory and reports which of the expected names are
// missing, mirroring `result_manager.get_result_summary`'s role as the
// read-side companion to the write-through Artifact Store.
func (m *ResultManager) GetResultSummary(symbol, date string) (string, error) {
	present, err := m.store.ListArtifacts(symbol, date)
	if err != nil {
		return "", fmt.Errorf("result manager: list artifacts: %w", err)
	}
	presentSet := make(map[string]bool, len(present))
	for _, name := range present {
		presentSet[name] = true
	}

	var missing []string
	for _, name := range expectedArtifacts {
		if !presentSet[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(present)

	var sb strings.Builder
	fmt.Fprintf(&sb, "股票 %s 于 %s 的分析产物：%d/%d 项已生成\n", symbol, date, len(present), len(expectedArtifacts))
	for _, name := range present {
		sb.WriteString("  - " + name + ".json\n")
	}
	if len(missing) > 0 {
		sb.WriteString("缺失：\n")
		for _, name := range missing {
			sb.WriteString("  - " + name + ".json\n")
		}
	}
	return sb.String(), nil
}

// Complete reports whether every expected artifact name is present for a
// symbol/date directory.
func (m *ResultManager) Complete(symbol, date string) bool {
	present, err := m.store.ListArtifacts(symbol, date)
	if err != nil {
		return false
	}
	presentSet := make(map[string]bool, len(present))
	for _, name := range present {
		presentSet[name] = true
	}
	for _, name := range expectedArtifacts {
		if !presentSet[name] {
			return false
		}
	}
	return true
}
