// Package analyst implements the five perspective analyst nodes
// (Fundamental, Technical, Fund, News, Sentiment) plus the Supervisor
// reasoning node that closes the DAG (spec §4.3).
package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/agent"
	"github.com/y437li/stockagent/pkg/core/report"
	"github.com/y437li/stockagent/pkg/core/store"
	"github.com/y437li/stockagent/pkg/core/summarize"
	"github.com/y437li/stockagent/pkg/core/types"
)

// Request is the uniform input every node receives: a symbol and a
// canonicalized window. Nodes never see each other's in-memory output;
// the only cross-node dependency is a read from the Artifact Store (spec
// §4.4's "expose the dependency as a read from the Artifact Store, not an
// in-memory handle").
type Request struct {
	Symbol      string
	CompanyName string
	Window      acquire.Window
}

// Date is the YYYYMMDD artifact-store key for this request's window.
func (r Request) Date() string { return r.Window.EndYYYYMMDD() }

// Period is the `analysis_period` string persisted on every artifact.
func (r Request) Period() string { return r.Window.StartYYYYMMDD() + "~" + r.Window.EndYYYYMMDD() }

// Node is one unit of the analyst DAG. Run performs the node's work and
// returns the raw JSON it persisted, so the scheduler can attach it to
// the node's on_chain_end lifecycle event without a separate read-back.
type Node interface {
	Name() string
	Run(ctx context.Context, req Request) (json.RawMessage, error)
}

// BaseAnalyst bundles the collaborators every perspective node needs:
// the acquisition registry, the summarization engine, the LLM agent
// manager, and the artifact store. Concrete nodes embed this and supply
// their own interface list, objective, prompt template and score keys.
type BaseAnalyst struct {
	Registry *acquire.Registry
	Engine   *summarize.Engine
	Manager  *agent.Manager
	Store    *store.ArtifactStore

	// OnTool, when set, is invoked around every acquisition fetch so the
	// scheduler can emit the Event Stream Formatter's tool-start/tool-end
	// frames (spec §4.6) without runInterfaces knowing anything about
	// streaming. phase is "start" or "end"; detail is empty on start and
	// the rendered InterfaceResult summary on end.
	OnTool func(node, tool, phase, detail string)
}

func (b *BaseAnalyst) notifyTool(node, tool, phase, detail string) {
	if b.OnTool != nil {
		b.OnTool(node, tool, phase, detail)
	}
}

// interfaceSpec pairs one acquisition Kind with the objective label fed
// to the summarization engine's column-selection and template stages.
type interfaceSpec struct {
	kind      acquire.Kind
	objective string
}

// fetchAndSummarize runs one fetch → summarize step and returns the
// resulting InterfaceResult. A provider error yields a status="error"
// result rather than failing the whole node (spec: "empty is success,
// only transport/schema failures are errors").
func (b *BaseAnalyst) fetchAndSummarize(ctx context.Context, node string, obj summarize.Objective, spec interfaceSpec, symbol string, w acquire.Window) report.InterfaceResult {
	b.notifyTool(node, string(spec.kind), "start", "")

	table, err := b.Registry.Fetch(ctx, spec.kind, symbol, w)
	if err != nil {
		ir := report.InterfaceResult{
			Objective: spec.objective,
			Status:    report.StatusError,
			Summary:   fmt.Sprintf("fetch %s: %v", spec.kind, err),
		}
		b.notifyTool(node, string(spec.kind), "end", ir.Summary)
		return ir
	}

	summary := b.Engine.Summarize(ctx, obj, spec.objective, table)
	rawRows := renderRawRows(table)
	b.notifyTool(node, string(spec.kind), "end", summary)
	return report.InterfaceResult{
		Objective: spec.objective,
		Summary:   summary,
		RawRows:   rawRows,
		Status:    report.StatusSuccess,
	}
}

// runInterfaces fans out one fetch→summarize call per declared interface
// across a bounded worker pool (spec §4.4: "min(N interfaces + 1, 10)"),
// keyed by interface Kind for the ToolResult's `interfaces` map.
func (b *BaseAnalyst) runInterfaces(ctx context.Context, node string, obj summarize.Objective, specs []interfaceSpec, symbol string, w acquire.Window) map[string]report.InterfaceResult {
	results := make(map[string]report.InterfaceResult, len(specs))
	var mu sync.Mutex

	poolSize := len(specs) + 1
	if poolSize > 10 {
		poolSize = 10
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize)

	for _, spec := range specs {
		spec := spec
		g.Go(func() error {
			ir := b.fetchAndSummarize(gctx, node, obj, spec, symbol, w)
			mu.Lock()
			results[string(spec.kind)] = ir
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // per-interface errors are captured as status=error results, never propagated

	return results
}

// renderRawRows renders each row of a Table as a pipe-joined string,
// preserved on InterfaceResult.RawRows for traceability alongside the
// LLM-produced summary.
func renderRawRows(t types.Table) []string {
	rows := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.String()
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	return rows
}

// callLLM invokes the agent manager for a perspective's report-generation
// call. A transport/model failure returns "" so the caller's JSON parse
// falls through to the sentinel report rather than propagating an error
// up through the DAG (spec §4.8 PipelineInternal containment).
func (b *BaseAnalyst) callLLM(agentType, promptText, systemPrompt string) string {
	resp, err := b.Manager.ExecutePrompt(agentType, promptText, systemPrompt, nil)
	if err != nil {
		return ""
	}
	return resp
}

// combinedSummary concatenates every successful interface summary into
// one string, used as a ToolResult's `combined_summary` field and as the
// Sentiment node's News input.
func combinedSummary(interfaces map[string]report.InterfaceResult) string {
	var sb strings.Builder
	for _, ir := range interfaces {
		if ir.Status != report.StatusSuccess || ir.Summary == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(ir.Summary)
	}
	return sb.String()
}
