package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/y437li/stockagent/pkg/core/llm"
	"github.com/y437li/stockagent/pkg/core/types"
	"github.com/y437li/stockagent/pkg/core/utils"
)

// Objective names the four summarization templates spec §4.2 defines.
type Objective string

const (
	ObjectiveInsight   Objective = "insight"
	ObjectiveTechnical Objective = "technical"
	ObjectiveFundFlow  Objective = "fund_flow"
	ObjectiveNews      Objective = "news"
)

// Engine performs the two-stage reduction: column selection, then
// objective-specific summarization. It is also the host for the adaptive
// token budgeter used by news-corpus summarization.
type Engine struct {
	provider llm.Provider
}

func NewEngine(provider llm.Provider) *Engine {
	return &Engine{provider: provider}
}

// SelectColumns asks the LLM for a JSON array of columns relevant to the
// stated objective. Columns the model hallucinates (not present in the
// table) are discarded. If the LLM call fails or its reply cannot be
// parsed as a JSON array, all columns are kept (spec §4.2's
// "SummarizerFailed" degrade path); if no valid column remains, the
// result is empty.
func (e *Engine) SelectColumns(ctx context.Context, objective string, table types.Table) []string {
	if len(table.Columns) == 0 {
		return nil
	}
	prompt := fmt.Sprintf(
		"Objective: %s\nAvailable columns: %s\nReturn a JSON array of the column names most relevant to this objective. Return only the JSON array.",
		objective, strings.Join(table.Columns, ", "),
	)
	raw, err := e.provider.GenerateResponse(ctx, prompt, columnSelectionSystemPrompt, nil)
	if err != nil {
		return table.Columns
	}

	var picked []string
	if _, err := utils.SmartParse(extractJSONArray(raw), &picked); err != nil {
		return table.Columns
	}

	valid := table.ColumnIndex()
	out := make([]string, 0, len(picked))
	for _, c := range picked {
		if _, ok := valid[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

const columnSelectionSystemPrompt = "You select the subset of table columns most relevant to a stated analysis objective. Respond with a JSON array of column name strings only, drawn exclusively from the columns provided."

// extractJSONArray trims a fenced code block if present, matching the
// reference implementation's lenient LLM-response handling.
func extractJSONArray(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Summarize renders the selected sub-table as compact text and feeds it to
// the objective-specific template, returning the LLM's response text as the
// summary. On LLM failure it returns the placeholder "error generating
// report" sentinel (spec §4.8).
func (e *Engine) Summarize(ctx context.Context, objective Objective, objectiveLabel string, table types.Table) string {
	columns := e.SelectColumns(ctx, objectiveLabel, table)
	sub := table.Project(columns)
	if len(sub.Columns) == 0 {
		return "未匹配到相关数据列"
	}

	rendered := RenderTable(sub)
	prompt := templateFor(objective, objectiveLabel, rendered)
	resp, err := e.provider.GenerateResponse(ctx, prompt, systemPromptFor(objective), nil)
	if err != nil {
		return "生成分析时出错"
	}
	return resp
}

// RenderTable renders a Table to the compact textual form fed into the
// summarization templates: a header row followed by pipe-joined rows.
func RenderTable(t types.Table) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(t.Columns, " | "))
	sb.WriteString("\n")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.String()
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func templateFor(obj Objective, label, rendered string) string {
	switch obj {
	case ObjectiveTechnical:
		return fmt.Sprintf("Objective: %s\nAnalyze the following technical/price table and describe trend, momentum and key levels.\n\n%s", label, rendered)
	case ObjectiveFundFlow:
		return fmt.Sprintf("Objective: %s\nAnalyze the following fund-flow table and describe who is buying/selling and at what scale.\n\n%s", label, rendered)
	case ObjectiveNews:
		return fmt.Sprintf("Objective: %s\nSummarize the following news corpus, covering sentiment, catalysts and risks.\n\n%s", label, rendered)
	default:
		return fmt.Sprintf("Objective: %s\nSummarize the key insights in the following table.\n\n%s", label, rendered)
	}
}

func systemPromptFor(obj Objective) string {
	switch obj {
	case ObjectiveTechnical:
		return "You are a technical analyst. Produce a concise, data-grounded summary."
	case ObjectiveFundFlow:
		return "You are a fund-flow analyst. Produce a concise, data-grounded summary."
	case ObjectiveNews:
		return "You are a financial news analyst. Produce a concise, evidence-grounded summary."
	default:
		return "You are a financial analyst. Produce a concise, data-grounded summary."
	}
}

// SummarizeCorpus applies the adaptive token budgeter (spec §4.2) to a list
// of textual items (news articles, filing excerpts, etc): items are packed
// into batches bounded by CharCap, each batch is summarized in one LLM
// call with a perspective-specific objective, and results are concatenated
// with BatchSeparator. If items is empty, returns the fixed sentinel.
func (e *Engine) SummarizeCorpus(ctx context.Context, cfg BudgetConfig, objective string, items []string) string {
	if len(items) == 0 {
		return "未匹配到相关数据列"
	}

	capChars := CharCap(cfg, items)
	batches := PackBatches(items, capChars)

	parts := make([]string, 0, len(batches))
	for i, batch := range batches {
		header := PerBatchHeader(i+1, len(batches), objective)
		rendered := header + "\n\n" + RenderBatch(batch)
		resp, err := e.provider.GenerateResponse(ctx, rendered, systemPromptFor(ObjectiveNews), nil)
		if err != nil {
			resp = "生成分析时出错"
		}
		parts = append(parts, resp)
	}
	return strings.Join(parts, BatchSeparator)
}
