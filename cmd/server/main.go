package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server"
	"github.com/dmitrijs2005/postboard/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		if errors.Is(err, common.ErrMissingSecret) {
			log.Printf("refusing to start: %v (set JWT_SECRET, -s or secret_key)", err)
		} else {
			log.Printf("config error: %v", err)
		}
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "App init failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "App exited with error", "error", err)
		os.Exit(1)
	}
}
