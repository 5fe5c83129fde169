package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"

	"pspicdash/internal"
	"pspicdash/internal/api"
	"pspicdash/internal/config"
	"pspicdash/internal/container"
	"pspicdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx := context.Background()
	appContainer, err := container.Open(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(ctx)

	if appConfig.Profiling.Enabled {
		go func() {
			addr := "localhost:" + appConfig.Profiling.Port
			log.Printf("pprof listening on %s", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Printf("pprof server stopped: %v", err)
			}
		}()
	}

	server, err := ui.NewServer(ui.Deps{
		Dashboards:    appContainer.Dashboards,
		Navigation:    appContainer.Navigation,
		API:           api.NewRouter(appContainer.Dashboards),
		SessionCookie: appConfig.Server.SessionCookie,
		PDFCover:      appConfig.Export.PDFCover,
	})
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
