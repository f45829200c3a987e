package main

import (
	"flag"

	"MarketForge/internal/splitter"
	"MarketForge/pkg/config"

	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "conf/marketforge.ini", "Config file path")
	input      = flag.String("input", "", "Input CSV (overrides config)")
	out1       = flag.String("out1", "", "First half output (overrides config)")
	out2       = flag.String("out2", "", "Second half output (overrides config)")
	column     = flag.String("column", "", "Key column; when set, rows are sharded by key instead of split in half")
	shards     = flag.Int("shards", 0, "Shard count for key sharding (overrides config)")
	pattern    = flag.String("pattern", "", "Shard file pattern, e.g. part%d.csv (default: input name + _shardN)")
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
	sc := cfg.Splitter
	if *input != "" {
		sc.Input = *input
	}
	if *out1 != "" {
		sc.Output1 = *out1
	}
	if *out2 != "" {
		sc.Output2 = *out2
	}
	if *column != "" {
		sc.Column = *column
	}
	if *shards > 0 {
		sc.Shards = *shards
	}

	if sc.Column == "" {
		if _, err := splitter.SplitHalf(sc.Input, sc.Output1, sc.Output2); err != nil {
			logrus.Fatalf("Failed to split %s: %v", sc.Input, err)
		}
		logrus.Info("Split completed")
		return
	}

	p := *pattern
	if p == "" {
		p = sc.Input
	}
	if _, err := splitter.SplitShards(sc.Input, p, sc.Column, sc.Shards); err != nil {
		logrus.Fatalf("Failed to shard %s: %v", sc.Input, err)
	}
	logrus.Info("Sharding completed")
}
