package main

import (
	"flag"
	"fmt"

	"MarketForge/internal/report"
	"MarketForge/pkg/config"
	"MarketForge/pkg/json"

	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "conf/marketforge.ini", "Config file path")
	input      = flag.String("input", "", "Generated CSV (overrides config)")
	dbPath     = flag.String("db", "", "DuckDB file, empty for in-memory (overrides config)")
	asJSON     = flag.Bool("json", false, "Print the report as JSON")
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
	rc := cfg.Report
	if *input != "" {
		rc.Input = *input
	}
	if *dbPath != "" {
		rc.Database = *dbPath
	}
	if rc.Input == "" {
		logrus.Fatal("No input CSV, set [report] input or -input")
	}

	r, err := report.Open(rc.Database)
	if err != nil {
		logrus.Fatalf("Failed to open duckdb: %v", err)
	}
	defer r.Close()

	rep, err := r.Run(rc.Input)
	if err != nil {
		logrus.Fatalf("Failed to build report: %v", err)
	}

	if *asJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			logrus.Fatalf("Failed to encode report: %v", err)
		}
		fmt.Println(string(data))
		return
	}
	rep.Log()
}
