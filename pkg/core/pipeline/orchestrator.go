// Package pipeline implements the DAG scheduler that fans the five
// analyst nodes out over the static edge set (spec §4.4), streams
// lifecycle events through the Event Stream Formatter, and exposes the
// background task-map singleton backing the non-streaming HTTP contract
// (spec §6.1). Grounded on the teacher's own pipeline orchestrator for
// the overall run-and-persist shape, and on pkg/core/debate/manager.go
// for the singleton task-map pattern.
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/agent"
	"github.com/y437li/stockagent/pkg/core/analyst"
	newsenrich "github.com/y437li/stockagent/pkg/core/news"
	"github.com/y437li/stockagent/pkg/core/report"
	"github.com/y437li/stockagent/pkg/core/store"
	"github.com/y437li/stockagent/pkg/core/stream"
	"github.com/y437li/stockagent/pkg/core/summarize"
)

// Orchestrator owns the five perspective nodes plus the Supervisor and
// runs them across the fixed DAG edges (spec §4.4):
//
//	start → {Fundamental, News, Technical, Fund}
//	{Fundamental, News} → Sentiment
//	{Sentiment, Technical, Fund, Fundamental} → Supervisor
//	Supervisor → FinalSave
type Orchestrator struct {
	store       *store.ArtifactStore
	fundamental *analyst.Fundamental
	technical   *analyst.Technical
	fund        *analyst.Fund
	news        *analyst.News
	sentiment   *analyst.Sentiment
	supervisor  *analyst.Supervisor
}

// NewOrchestrator wires one BaseAnalyst across all six nodes.
func NewOrchestrator(registry *acquire.Registry, engine *summarize.Engine, mgr *agent.Manager, artifacts *store.ArtifactStore, newsPipeline *newsenrich.Pipeline) *Orchestrator {
	base := &analyst.BaseAnalyst{Registry: registry, Engine: engine, Manager: mgr, Store: artifacts}
	return &Orchestrator{
		store:       artifacts,
		fundamental: analyst.NewFundamental(base),
		technical:   analyst.NewTechnical(base),
		fund:        analyst.NewFund(base),
		news:        analyst.NewNews(base, newsPipeline),
		sentiment:   analyst.NewSentiment(base),
		supervisor:  analyst.NewSupervisor(base),
	}
}

// Run executes the full DAG with no event sink, returning the terminal
// SupervisorReport. Used by the non-streaming /analyze_stock task-map
// path (spec §9.1).
func (o *Orchestrator) Run(ctx context.Context, req analyst.Request) (report.SupervisorReport, error) {
	return o.run(ctx, req, nil)
}

// RunStreaming executes the full DAG, emitting a lifecycle event pair
// per node plus tool-level events through sw (spec §4.4/§4.6). Individual
// node failures are reported inline and never abort sibling or downstream
// nodes (spec §4.4 "node failures ... do not prevent siblings or
// downstream nodes from running").
func (o *Orchestrator) RunStreaming(ctx context.Context, req analyst.Request, f *stream.Formatter, sw *stream.Writer) error {
	_, err := o.run(ctx, req, func(ev streamHook) {
		switch ev.kind {
		case hookChainStart:
			sw.Send(f.ChainStart(ev.node))
		case hookToolStart:
			sw.Send(f.ToolStart(ev.node, ev.tool))
		case hookToolEnd:
			sw.Send(f.ToolEnd(ev.node, ev.tool, ev.detail))
		case hookChainEnd:
			complete, result := f.ChainEnd(ev.node, ev.resultData)
			sw.SendAll(complete, result)
		case hookChainError:
			sw.Send(f.ChainError(ev.node, ev.err))
		}
	})
	return err
}

type hookKind int

const (
	hookChainStart hookKind = iota
	hookToolStart
	hookToolEnd
	hookChainEnd
	hookChainError
)

type streamHook struct {
	kind       hookKind
	node       string
	tool       string
	detail     string
	resultData interface{}
	err        error
}

// run is the shared DAG driver; emit is nil for the non-streaming path.
func (o *Orchestrator) run(ctx context.Context, req analyst.Request, emit func(streamHook)) (report.SupervisorReport, error) {
	phaseOne := []analyst.Node{o.fundamental, o.technical, o.fund, o.news}
	o.attachHooks(emit)

	o.runPhase(ctx, req, phaseOne, emit)
	o.runPhase(ctx, req, []analyst.Node{o.sentiment}, emit)
	o.runPhase(ctx, req, []analyst.Node{o.supervisor}, emit)

	var sup report.SupervisorReport
	if !o.store.LoadReport(req.Symbol, req.Date(), "supervisor_report", &sup) {
		return sup, fmt.Errorf("pipeline: supervisor_report missing after run")
	}

	if err := o.finalSave(req); err != nil {
		return sup, err
	}
	return sup, nil
}

// attachHooks wires the shared BaseAnalyst's tool-start/tool-end callback;
// all five perspective nodes embed the same *BaseAnalyst pointer, so one
// assignment covers every node's acquisition calls.
func (o *Orchestrator) attachHooks(emit func(streamHook)) {
	if emit == nil {
		return
	}
	base := o.fundamental.BaseAnalyst
	base.OnTool = func(node, tool, phase, detail string) {
		if phase == "start" {
			emit(streamHook{kind: hookToolStart, node: node, tool: tool})
		} else {
			emit(streamHook{kind: hookToolEnd, node: node, tool: tool, detail: detail})
		}
	}
}

// runPhase runs every node in nodes concurrently (spec: "nodes with no
// unmet predecessors are eligible to run; eligible nodes run
// concurrently"), emitting the chain-start/chain-end lifecycle pair per
// node. A node's own error is caught and reported, never propagated.
func (o *Orchestrator) runPhase(ctx context.Context, req analyst.Request, nodes []analyst.Node, emit func(streamHook)) {
	g, gctx := errgroup.WithContext(ctx)
	for _, n := range nodes {
		n := n
		g.Go(func() error {
			if emit != nil {
				emit(streamHook{kind: hookChainStart, node: n.Name()})
			}
			raw, err := n.Run(gctx, req)
			if err != nil {
				if emit != nil {
					emit(streamHook{kind: hookChainError, node: n.Name(), err: err})
				}
				return nil
			}
			if emit != nil {
				emit(streamHook{kind: hookChainEnd, node: n.Name(), resultData: string(raw)})
			}
			return nil
		})
	}
	_ = g.Wait()
}

// finalSave enumerates the produced reports and writes the index summary
// artifact (spec §4.4 "FinalSave enumerates the produced reports").
func (o *Orchestrator) finalSave(req analyst.Request) error {
	rm := store.NewResultManager(o.store)
	summaryText, err := rm.GetResultSummary(req.Symbol, req.Date())
	if err != nil {
		return err
	}
	return o.store.SaveRaw(req.Symbol, req.Date(), "analysis_summary", map[string]string{"text": summaryText})
}
