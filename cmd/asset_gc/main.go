package main

import (
	"context"
	"flag"
	"log"

	"portfolio/internal/app"
	"portfolio/internal/config"
	"portfolio/internal/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "only report orphaned files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l := logger.New(cfg.LogLevel)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, l)
	if err != nil {
		l.WithError(err).Fatal("startup failed")
	}
	defer a.Close()

	report, err := a.SweepOrphans(ctx, *dryRun)
	if err != nil {
		l.WithError(err).Fatal("asset sweep failed")
	}

	found := 0
	for _, names := range report.Orphans {
		found += len(names)
	}
	l.WithField("orphans", found).WithField("removed", report.Removed).WithField("dry_run", *dryRun).Info("asset sweep completed")
}
