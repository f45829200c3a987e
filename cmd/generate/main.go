package main

import (
	"flag"

	"MarketForge/internal/generator"
	"MarketForge/internal/loader"
	"MarketForge/internal/model"
	"MarketForge/internal/repository"
	"MarketForge/pkg/config"

	"github.com/injoyai/bar"
	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "conf/marketforge.ini", "Config file path")
	market     = flag.String("market", "", "Market variant: csi500 or sp500 (overrides config)")
	input      = flag.String("input", "", "Company list CSV (overrides config)")
	output     = flag.String("output", "", "Output CSV (overrides config)")
	target     = flag.Int("target", 0, "Target record count (overrides config)")
	rowSeed    = flag.Int64("seed", 0, "Row seed, 0 keeps the config value")
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
	gc := cfg.Generator
	if *market != "" {
		gc.Market = *market
	}
	if *input != "" {
		gc.Input = *input
	}
	if *output != "" {
		gc.Output = *output
	}
	if *target > 0 {
		gc.TargetRecords = *target
	}
	if *rowSeed != 0 {
		gc.RowSeed = *rowSeed
	}

	v, err := generator.Lookup(gc.Market)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if gc.Input == "" {
		gc.Input = v.DefaultInput
	}
	if gc.Output == "" {
		gc.Output = v.DefaultOutput
	}

	logrus.Info("===========================================")
	logrus.Infof("  MarketForge synthetic data: %s", v.Name)
	logrus.Info("===========================================")
	logrus.Infof("Input: %s", gc.Input)
	logrus.Infof("Output: %s", gc.Output)
	logrus.Infof("Target records: %d", gc.TargetRecords)

	companies, err := loader.LoadCompanies(gc.Input)
	if err != nil {
		logrus.Fatalf("Failed to load companies: %v", err)
	}
	logrus.Infof("Loaded %d companies", len(companies))

	b := bar.New(
		bar.WithTotal(int64(len(companies))),
		bar.WithPrefix("["+v.Name+"]"),
		bar.WithFlush(),
	)

	g := generator.New(v, generator.Options{
		Years:     gc.Years,
		IndexSeed: gc.IndexSeed,
		RowSeed:   gc.RowSeed,
		OnCompany: func(done, total int) {
			b.Add(1)
			b.Flush()
		},
	})
	logrus.Infof("Row seed: %d", g.RowSeed())

	records, err := g.Generate(companies, gc.TargetRecords)
	b.Close()
	if err != nil {
		logrus.Fatalf("Failed to generate records: %v", err)
	}

	if err := generator.WriteCSV(gc.Output, v, records); err != nil {
		logrus.Fatalf("Failed to write output: %v", err)
	}
	logrus.Infof("Saved %d records to %s", len(records), gc.Output)

	generator.LogSummary(generator.Summarize(records))

	sinks, err := repository.OpenSinks(cfg)
	if err != nil {
		logrus.Fatalf("Failed to open sinks: %v", err)
	}
	if err := saveToSinks(sinks, v.Name, records); err != nil {
		logrus.Fatalf("Failed to save records: %v", err)
	}
}

// saveToSinks 依次写入所有落地目标，无论成败都会关闭全部目标
func saveToSinks(sinks []repository.RecordRepository, variant string, records []*model.SyntheticRecord) error {
	defer repository.CloseAll(sinks)
	for _, s := range sinks {
		if err := s.SaveRecords(variant, records); err != nil {
			return err
		}
	}
	return nil
}
