package main

import (
	"log"
	"net/http"
	"time"

	"pspicdash/internal"
	"pspicdash/internal/api"
	"pspicdash/internal/config"
	"pspicdash/internal/container"

	"github.com/joho/godotenv"
)

// Serves only the JSON API, for consumers that do not need the HTML pages.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	c.InitInMemory()
	if err := c.InitDashboards(); err != nil {
		log.Fatalf("Failed to initialize dashboards: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(c.Dashboards),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Sheets.Timeout + 30*time.Second,
	}
	log.Printf("Starting API server on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("Server failed:", err)
	}
}
