package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/y437li/stockagent/pkg/api/analysis"
	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/agent"
	newsenrich "github.com/y437li/stockagent/pkg/core/news"
	"github.com/y437li/stockagent/pkg/core/pipeline"
	"github.com/y437li/stockagent/pkg/core/prompt"
	"github.com/y437li/stockagent/pkg/core/store"
	"github.com/y437li/stockagent/pkg/core/summarize"
)

func main() {
	godotenv.Load()

	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("⚠️  Failed to load prompt library from %s: %v\n", resourcesPath, err)
	} else {
		fmt.Printf("✅ Loaded %d prompts from %s\n", prompt.Get().Count(), resourcesPath)
	}

	configData, _ := ioutil.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr := agent.NewManager(agentCfg)

	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("⚠️  Database catalogue unavailable, company-name lookups fall back to the raw symbol: %v\n", err)
	}

	registry := acquire.NewRegistry(
		[]acquire.Provider{acquire.NewPrimaryProvider(), acquire.NewSecondaryProvider(), acquire.NewTertiaryProvider()},
		acquire.NewNewsSourceProvider(),
		envOr("PROBE_SYMBOL", "600519.SH"),
	)
	if err := registry.Init(ctx); err != nil {
		fmt.Printf("⚠️  No acquisition provider reachable at startup: %v\n", err)
	}

	engine := summarize.NewEngine(agentMgr.GetProvider("summarizer"))
	artifacts := store.NewArtifactStore(envOr("ARTIFACT_ROOT", "artifacts"))
	catalogue := store.NewCatalogue()

	newsConfigPath := envOr("NEWS_CONFIG_PATH", "")
	newsPipeline, err := newsenrich.NewPipeline(newsConfigPath, agentMgr, engine)
	if err != nil {
		fmt.Printf("⚠️  News pipeline init failed, news node will degrade: %v\n", err)
	}

	orch := pipeline.NewOrchestrator(registry, engine, agentMgr, artifacts, newsPipeline)
	handler := analysis.NewHandler(orch, catalogue)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/stream_analysis", handler.HandleStreamAnalysis)
	mux.HandleFunc("/api/v1/analyze_stock", handler.HandleAnalyzeStock)
	mux.HandleFunc("GET /api/v1/get_task_status/{task_id}", handler.HandleGetTaskStatus)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - GET/POST /api/v1/stream_analysis")
	fmt.Println("  - POST     /api/v1/analyze_stock")
	fmt.Println("  - GET      /api/v1/get_task_status/{task_id}")

	if err := http.ListenAndServe(":8080", mux); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
