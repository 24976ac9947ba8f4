package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/y437li/stockagent/pkg/core/acquire"
	"github.com/y437li/stockagent/pkg/core/agent"
	"github.com/y437li/stockagent/pkg/core/analyst"
	"github.com/y437li/stockagent/pkg/core/news"
	"github.com/y437li/stockagent/pkg/core/pipeline"
	"github.com/y437li/stockagent/pkg/core/prompt"
	"github.com/y437li/stockagent/pkg/core/store"
	"github.com/y437li/stockagent/pkg/core/summarize"
)

func main() {
	symbol := flag.String("symbol", "", "A-share stock code, e.g. 600519.SH")
	endDate := flag.String("end-date", "", "analysis end date, YYYYMMDD (defaults to today)")
	newsConfigPath := flag.String("news-config", "", "optional hot-reloaded news behavior YAML")
	flag.Parse()

	if *symbol == "" {
		log.Fatal("Error: -symbol is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	if err := prompt.LoadFromDirectory("resources"); err != nil {
		fmt.Printf("⚠️  Failed to load prompt library: %v\n", err)
	} else {
		fmt.Printf("✅ Loaded %d prompts\n", prompt.Get().Count())
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
		log.Fatalf("Error: no acquisition provider reachable: %v", err)
	}

	engine := summarize.NewEngine(agentMgr.GetProvider("summarizer"))
	artifacts := store.NewArtifactStore(envOr("ARTIFACT_ROOT", "artifacts"))

	companyName := *symbol
	catalogue := store.NewCatalogue()
	if basic, err := catalogue.StockBasic(ctx, *symbol); err == nil && basic != nil {
		companyName = basic.Name
	}

	newsPipeline, err := news.NewPipeline(*newsConfigPath, agentMgr, engine)
	if err != nil {
		log.Fatalf("Error: news pipeline init: %v", err)
	}

	orch := pipeline.NewOrchestrator(registry, engine, agentMgr, artifacts, newsPipeline)

	req := analyst.Request{Symbol: *symbol, CompanyName: companyName, Window: acquire.CanonicalizeWindow(*endDate)}

	fmt.Printf("🚀 Running analysis for %s (%s), period %s...\n", *symbol, companyName, req.Period())
	result, err := orch.Run(ctx, req)
	if err != nil {
		log.Fatalf("Error: pipeline run failed: %v", err)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
