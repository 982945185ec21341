package main

import (
	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/config"
	"github.com/mohammed-tarek-rezk/Taskify/internal/database"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
	"github.com/mohammed-tarek-rezk/Taskify/internal/logging"
	"github.com/mohammed-tarek-rezk/Taskify/internal/server"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logging.Setup(cfg); err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}
	defer logging.Flush()

	gin.SetMode(cfg.GinMode)
	apierrors.SetExposeDetails(!cfg.IsProduction())

	if err := database.Connect(cfg); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(database.GetDB()); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Task generation stays disabled without an API key
	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	}

	r, err := server.NewRouter(cfg, database.GetDB(), generator)
	if err != nil {
		logrus.Fatalf("Failed to build router: %v", err)
	}

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
