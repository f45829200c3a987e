package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketForge/internal/cache/lru"
	"MarketForge/internal/cache/snapshot"
	"MarketForge/internal/enricher"
	"MarketForge/internal/loader"
	"MarketForge/internal/provider"
	"MarketForge/internal/repository"
	"MarketForge/pkg/config"

	"github.com/injoyai/bar"
	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "conf/marketforge.ini", "Config file path")
	input      = flag.String("input", "", "Company list CSV (overrides config)")
	output     = flag.String("output", "", "Output CSV (overrides config)")
	noCache    = flag.Bool("no-cache", false, "Ignore and do not write the snapshot cache")
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
	ec := cfg.Enricher
	if *input != "" {
		ec.Input = *input
	}
	if *output != "" {
		ec.Output = *output
	}

	companies, err := loader.LoadCompanies(ec.Input)
	if err != nil {
		logrus.Fatalf("Failed to load companies: %v", err)
	}
	logrus.Infof("Total companies: %d", len(companies))

	p, err := provider.New(&cfg.Provider)
	if err != nil {
		logrus.Fatalf("Failed to create provider: %v", err)
	}

	var infos *repository.CompanyInfoRepository
	var snap *snapshot.Manager
	if !*noCache {
		cache := lru.NewCache(cfg.Cache.MaxBytes, time.Duration(cfg.Cache.TTLSeconds)*time.Second, nil)
		snap = snapshot.NewManager(cache, cfg.Cache.SnapshotPath)
		if _, err := snap.Load(); err != nil {
			logrus.Warnf("Failed to load snapshot, starting empty: %v", err)
		}
		snap.AutoSnapshot(30 * time.Second)
		infos = repository.NewCompanyInfoRepository(cache)
		logrus.Infof("Cached companies: %d", infos.Len())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bar.New(
		bar.WithTotal(int64(len(companies))),
		bar.WithPrefix("[enrich]"),
		bar.WithFlush(),
	)
	e := enricher.New(p, infos, enricher.Options{
		Delay:          time.Duration(ec.DelayMillis) * time.Millisecond,
		DefaultCountry: ec.DefaultCountry,
		OnCompany: func(done, total int) {
			b.Add(1)
			b.Flush()
		},
	})

	rows, err := e.Enrich(ctx, companies)
	b.Close()
	if snap != nil {
		if serr := snap.Stop(); serr != nil {
			logrus.Warnf("Failed to save snapshot: %v", serr)
		} else {
			logrus.Infof("Snapshot saved: %v", snap.Info())
		}
	}
	if err != nil {
		logrus.Fatalf("Enrichment interrupted: %v", err)
	}

	if err := enricher.WriteCSV(ec.Output, rows); err != nil {
		logrus.Fatalf("Failed to write output: %v", err)
	}
	logrus.Infof("Saved %d companies to %s", len(rows), ec.Output)
}
