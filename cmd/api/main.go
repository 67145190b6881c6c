package main

import (
	"log"
	"time"

	"cvmatch-backend/internal/analyzer"
	"cvmatch-backend/internal/feedback"
	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/prompt"
	"cvmatch-backend/internal/reports"
	"cvmatch-backend/internal/server"
	"cvmatch-backend/internal/services/health"
	"cvmatch-backend/internal/shared/config"
	"cvmatch-backend/internal/shared/telemetry"
	"cvmatch-backend/internal/submit"
)

func main() {
	cfg := config.Load()

	provider := llm.ResolveProvider(cfg.LLMProvider)
	apiKey := cfg.GroqAPIKey
	if provider == llm.ProviderOpenRouter {
		apiKey = cfg.OpenRouterAPIKey
	}

	client := llm.NewClient(llm.Options{
		Provider: provider,
		APIKey:   apiKey,
		Model:    cfg.DefaultModel,
		Timeout:  cfg.LLMTimeout,
	})

	prompts := prompt.NewStore()
	analyzerSvc := analyzer.NewService(client, prompts, client.DefaultModel(), cfg.BackupModel)

	reportStore, err := reports.NewStore(cfg.ReportsDir, cfg.RetentionPeriod())
	if err != nil {
		log.Fatalf("report store: %v", err)
	}
	feedbackStore, err := feedback.NewStore(cfg.FeedbackDir)
	if err != nil {
		log.Fatalf("feedback store: %v", err)
	}

	submitSvc := &submit.Service{
		Analyzer:        analyzerSvc,
		Reports:         reportStore,
		MaxContentBytes: cfg.MaxContentBytes(),
	}
	handler := submit.NewHandler(submitSvc, reportStore, feedbackStore)
	healthSvc := health.NewService(cfg.ReportsDir, cfg.FeedbackDir, apiKey != "")

	go cleanupLoop(reportStore)

	r := server.NewEngine(cfg, handler, healthSvc)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// cleanupLoop sweeps expired reports once at startup and then daily.
func cleanupLoop(store *reports.Store) {
	sweep := func() {
		removed := store.Cleanup()
		telemetry.Info("reports.cleanup", map[string]any{"removed": removed})
	}

	sweep()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		sweep()
	}
}
