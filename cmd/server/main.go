package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/arnavshah/fence-patrol-api/internal/app"
	"github.com/arnavshah/fence-patrol-api/pkg/config"
	"github.com/arnavshah/fence-patrol-api/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.InitLogger(cfg.Environment, cfg.LogFile)
	if err != nil {
		log.Fatalf("could not init logger: %v", err)
	}
	defer logger.Sync()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(context.Background(), cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("could not start", zap.Error(err))
	}
	defer a.Close()

	r := a.Router(prometheus.DefaultGatherer)
	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.Store.Backend),
		zap.String("strategy", cfg.Scheduling.Strategy))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
