package main

import (
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/farellandr/eventhub/internal/logger"
	"github.com/farellandr/eventhub/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("No .env file loaded, using process environment")
	}

	if err := server.Start(); err != nil {
		logger.Fatal("Server failed to start", "error", err)
	}
}
