// Package analysis exposes the three HTTP contracts the pipeline serves
// (spec §9.1): the streaming and background analyze_stock entry points
// plus the task-status poller. Grounded on pkg/api/debate/handlers.go's
// CORS/SSE conventions, generalized from one fixed debate shape to the
// stream.Event wire format.
package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/analyst"
	"github.com/y437li/stockagent/pkg/core/pipeline"
	"github.com/y437li/stockagent/pkg/core/store"
	"github.com/y437li/stockagent/pkg/core/stream"
)

// Handler bundles the orchestrator and catalogue every endpoint needs.
type Handler struct {
	Orch      *pipeline.Orchestrator
	Catalogue *store.Catalogue
}

func NewHandler(orch *pipeline.Orchestrator, catalogue *store.Catalogue) *Handler {
	return &Handler{Orch: orch, Catalogue: catalogue}
}

// analysisRequest is the shared {stock_code, end_date} body/query shape
// both HandleStreamAnalysis and HandleAnalyzeStock accept.
type analysisRequest struct {
	StockCode string `json:"stock_code"`
	EndDate   string `json:"end_date"`
}

func parseAnalysisRequest(r *http.Request) (analysisRequest, bool) {
	if r.Method == http.MethodGet {
		return analysisRequest{
			StockCode: r.URL.Query().Get("stock_code"),
			EndDate:   r.URL.Query().Get("end_date"),
		}, r.URL.Query().Get("stock_code") != ""
	}
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, false
	}
	return req, req.StockCode != ""
}

func (h *Handler) buildRequest(ctx context.Context, req analysisRequest) analyst.Request {
	companyName := req.StockCode
	if h.Catalogue != nil {
		if basic, err := h.Catalogue.StockBasic(ctx, req.StockCode); err == nil && basic != nil {
			companyName = basic.Name
		}
	}
	return analyst.Request{
		Symbol:      req.StockCode,
		CompanyName: companyName,
		Window:      acquire.CanonicalizeWindow(req.EndDate),
	}
}

// HandleStreamAnalysis serves both the POST body and GET query-string
// variants of stream_analysis (spec §9.1), streaming StreamEvent frames
// until the DAG completes or the client disconnects.
func (h *Handler) HandleStreamAnalysis(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	analysisReq, ok := parseAnalysisRequest(r)
	if !ok {
		http.Error(w, "stock_code is required", http.StatusBadRequest)
		return
	}

	sw, err := stream.NewWriter(w)
	if err != nil {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	f := stream.NewFormatter("")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		req := h.buildRequest(ctx, analysisReq)
		done <- h.Orch.RunStreaming(ctx, req, f, sw)
	}()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case err := <-done:
			for _, ev := range f.Terminal(err) {
				if sendErr := sw.Send(ev); sendErr != nil {
					return
				}
			}
			return
		case <-heartbeat.C:
			sw.Heartbeat()
		case <-r.Context().Done():
			return
		}
	}
}

// HandleAnalyzeStock starts a background run and returns its task_id
// with HTTP 202 (spec §9.1).
func (h *Handler) HandleAnalyzeStock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	analysisReq, ok := parseAnalysisRequest(r)
	if !ok {
		http.Error(w, "stock_code is required", http.StatusBadRequest)
		return
	}

	taskID := pipeline.GetTaskManager(h.Orch).StartTask(h.buildRequest(r.Context(), analysisReq))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"task_id": taskID})
}

// HandleGetTaskStatus serves GET /api/v1/get_task_status/{task_id}
// (spec §9.1), 404 on an unknown ID.
func (h *Handler) HandleGetTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if taskID == "" {
		http.Error(w, "task_id is required", http.StatusBadRequest)
		return
	}

	task, ok := pipeline.GetTaskManager(h.Orch).GetTask(taskID)
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": task.Status,
		"result": task.Result,
		"error":  task.Err,
	})
}
