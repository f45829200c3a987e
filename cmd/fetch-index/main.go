package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"MarketForge/internal/fetcher"
	"MarketForge/internal/provider"
	"MarketForge/pkg/config"

	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "conf/marketforge.ini", "Config file path")
	candidates = flag.String("candidates", "", "Comma separated tickers to try in order (overrides config)")
	fallback   = flag.String("fallback", "", "Fallback ticker (overrides config)")
	column     = flag.String("column", "", "Value column name, e.g. CSI500 or SP500 (overrides config)")
	output     = flag.String("output", "", "Output CSV (overrides config)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	fc := cfg.Fetcher
	if *candidates != "" {
		fc.Candidates = *candidates
	}
	if *fallback != "" {
		fc.Fallback = *fallback
	}
	if *column != "" {
		fc.ValueColumn = *column
	}
	if *output != "" {
		fc.Output = *output
	}

	p, err := provider.New(&cfg.Provider)
	if err != nil {
		logrus.Fatalf("Failed to create provider: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := fetcher.New(p, fetcher.Options{
		Candidates:    fc.CandidateList(),
		Fallback:      fc.Fallback,
		FallbackYears: fc.FallbackYears,
	})
	points, err := f.Fetch(ctx)
	if err != nil {
		logrus.Fatalf("Failed to fetch index prices: %v", err)
	}

	if err := fetcher.WriteCSV(fc.Output, fc.ValueColumn, points); err != nil {
		logrus.Fatalf("Failed to write output: %v", err)
	}
	fetcher.LogSummary(points)
	logrus.Infof("Saved %d rows to %s", len(points), fc.Output)
}
