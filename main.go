package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"heart-predict/cmd"
	"heart-predict/internal/data/repository"
	"heart-predict/internal/predictor"
	"heart-predict/internal/wire"
	"heart-predict/pkg/database"
	"heart-predict/pkg/metrics"
	"heart-predict/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using zap production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("model_path", config.Model.ModelPath),
		zap.String("scaler_path", config.Model.ScalerPath),
	)

	if config.App.SecretKey == utils.DefaultSecretKey && !config.App.Debug {
		logger.Warn("SECRET_KEY is the development default; set it in production")
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos := repository.NewRepository(db, logger)
	engine := predictor.NewEngine(config.Model, logger)
	m := metrics.New()

	app := wire.Wiring(repos, config, engine, m, logger)

	go cmd.SessionJanitor(ctx, repos.Session, time.Hour, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
