package main

import (
	"flag"
	"os"

	"MarketForge/internal/handler"
	"MarketForge/internal/middleware"
	"MarketForge/internal/repository"
	"MarketForge/internal/service"
	"MarketForge/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "conf/marketforge.ini", "Config file path")
	dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
	port       = flag.String("port", "", "Server port (overrides config)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	// 设置日志级别
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Storage.SQLitePath = *dbPath
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logrus.Info("===========================================")
	logrus.Info("  MarketForge Record Service")
	logrus.Info("===========================================")
	logrus.Infof("Database: %s", cfg.Storage.SQLitePath)
	logrus.Infof("Port: %s", cfg.Server.Port)
	logrus.Infof("Cache Size: %.2f MB", float64(cfg.Server.CacheMax)/(1024*1024))

	// 数据库由 generate 写入，这里只读
	if _, err := os.Stat(cfg.Storage.SQLitePath); os.IsNotExist(err) {
		logrus.Fatalf("Database file not found: %s", cfg.Storage.SQLitePath)
	}

	repo, err := repository.NewSQLiteRepository(cfg.Storage.SQLitePath, cfg.Storage.BatchSize)
	if err != nil {
		logrus.Fatalf("Failed to initialize repository: %v", err)
	}
	defer repo.Close()
	logrus.Info("Repository initialized")

	recordService := service.NewRecordService(repo, cfg.Server.CacheMax)
	recordHandler := handler.NewRecordHandler(recordService)

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	limiters := middleware.NewRouteLimiters(float64(cfg.Server.QPS), cfg.Server.Burst)
	breakers := middleware.NewBreakerGroup(middleware.DefaultCircuitBreakerConfig())
	var clients *middleware.IPRateLimiter
	if cfg.Server.IPQPS > 0 {
		clients = middleware.NewIPRateLimiter(cfg.Server.IPQPS, cfg.Server.IPBurst)
		logrus.Infof("Per-client limit: %.1f qps, burst %d", cfg.Server.IPQPS, cfg.Server.IPBurst)
	}
	logrus.Info("Middleware initialized (rate limiter & circuit breaker)")

	router := handler.NewRouter(recordHandler, limiters, clients, breakers)

	addr := ":" + cfg.Server.Port
	logrus.Infof("Starting server on %s", addr)
	logrus.Info("===========================================")

	if err := router.Run(addr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
