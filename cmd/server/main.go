// Package main is the entry point for the video generator backend
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/handlers"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/middleware"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/services/extract"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/services/upload"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/storage"
)

var (
	testConfig = flag.Bool("test-config", false, "Test configuration and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	settings := config.Get()
	if *verbose {
		settings.Debug = true
	}

	if *testConfig {
		if err := settings.ValidateStorageConfig(); err != nil {
			log.Fatalf("Configuration test failed: %v", err)
		}
		fmt.Println("Configuration test successful")
		return
	}

	fmt.Printf("\n=================================\n")
	fmt.Printf("%s v%s\n", settings.AppName, settings.Version)
	fmt.Printf("=================================\n\n")
	if settings.UseMockStorage {
		fmt.Printf("Using mock storage under %s\n", settings.StorageRoot)
	} else {
		fmt.Printf("Using %s storage\n", settings.StorageProvider)
	}
	if settings.Debug {
		log.Printf("Resolved settings: addr=%s uploads=%s processed=%s poll=%s timeout=%s",
			settings.GetAddressString(), settings.GCSUploadsPrefix, settings.GCSProcessedPrefix,
			settings.AnalyzePollInterval, settings.AnalyzePollTimeout)
	}

	ctx := context.Background()

	if settings.UseMockStorage {
		if _, err := settings.UploadsDir(); err != nil {
			log.Fatalf("Failed to prepare storage directories: %v", err)
		}
		if _, err := settings.ProcessedDir(); err != nil {
			log.Fatalf("Failed to prepare storage directories: %v", err)
		}
	}

	store, err := storage.CreateStore(ctx, settings)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	uploadService := upload.NewService(settings, store)
	extractService := extract.NewService(settings, store, extract.NewFFmpegTrimmer())

	hub := handlers.NewHub(settings.CORSOrigins)
	go hub.Run()
	extractService.SetNotifier(hub)

	apiHandler := handlers.NewHandler(settings, store, uploadService, extractService)

	router := mux.NewRouter()
	apiHandler.RegisterRoutes(router)
	router.HandleFunc("/ws", hub.ServeWs)

	if settings.UseMockStorage {
		router.PathPrefix("/storage/").Handler(handlers.NewMockStorageHandler(settings.StorageRoot))
	}

	handler := middleware.Chain(
		router,
		middleware.Logger(),
		middleware.Recover(),
		middleware.CORS(settings.CORSOrigins),
	)

	addr := settings.GetAddressString()
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(settings.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	hub.Shutdown()
	log.Println("Server shutdown complete")
}
