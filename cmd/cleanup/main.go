package main

import (
	"log"

	"cvmatch-backend/internal/reports"
	"cvmatch-backend/internal/shared/config"
)

// One-shot retention sweep for report artifacts, suitable for cron.
func main() {
	cfg := config.Load()

	store, err := reports.NewStore(cfg.ReportsDir, cfg.RetentionPeriod())
	if err != nil {
		log.Fatalf("report store: %v", err)
	}

	removed := store.Cleanup()
	log.Printf("cleanup complete: removed %d expired report(s)", removed)
}
