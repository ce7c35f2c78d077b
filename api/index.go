package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arnavshah/fence-patrol-api/internal/app"
	"github.com/arnavshah/fence-patrol-api/pkg/config"
	"github.com/arnavshah/fence-patrol-api/pkg/logging"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	logger, err := logging.InitLogger(cfg.Environment, "")
	if err != nil {
		log.Fatalf("could not init logger: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	a, err := app.New(context.Background(), cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("could not start: %v", err)
	}
	r = a.Router(prometheus.DefaultGatherer)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
