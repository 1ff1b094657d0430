package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ClipFM/config"
	"ClipFM/core/audio"
	"ClipFM/core/auth"
	"ClipFM/core/media"
	"ClipFM/db"
	"ClipFM/logger"
	"ClipFM/repository"
	"ClipFM/storage"

	"github.com/gorilla/mux"
	"github.com/lrstanley/go-ytdlp"
)

// Start initializes all dependencies and runs the HTTP server. Missing
// secrets, an unreachable media host or database, or an unprovisionable
// yt-dlp binary all abort startup; conversions must never discover a broken
// environment mid-request.
func Start() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	uploader, err := storage.NewMinioStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	if err := db.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer db.CloseRedis()
	log.Println("Successfully connected to Redis")

	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Provision the yt-dlp binary up front (no-op when already present).
	installCtx, cancelInstall := context.WithTimeout(context.Background(), 2*time.Minute)
	if _, err := ytdlp.Install(installCtx, nil); err != nil {
		cancelInstall()
		log.Fatalf("Failed to install yt-dlp: %v", err)
	}
	cancelInstall()

	if err := os.MkdirAll(cfg.ScratchDir, 0755); err != nil {
		log.Fatalf("Failed to create scratch base directory %s: %v", cfg.ScratchDir, err)
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)
	userRepo := repository.NewMySQLUserRepository(db.DB)
	trackRepo := repository.NewMySQLTrackRepository(db.DB)
	acquirer := media.NewYtdlpAcquirer()
	audioExtractor := audio.NewFFmpegExtractor(cfg.FFmpegPath, cfg.AudioBitrate)
	frameExtractor := media.NewFFmpegFrameExtractor(cfg.FFmpegPath)

	apiHandler := NewAPIHandler(verifier, userRepo, trackRepo, acquirer, audioExtractor, frameExtractor, uploader, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Authentication endpoints
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Conversion pipeline endpoints
	router.HandleFunc("/api/convert", apiHandler.AuthMiddleware(apiHandler.ConvertHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/convert/manual", apiHandler.AuthMiddleware(apiHandler.ConvertManualHandler)).Methods(http.MethodPost)

	// Library endpoints
	router.HandleFunc("/api/tracks", apiHandler.AuthMiddleware(apiHandler.GetTracksHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", apiHandler.AuthMiddleware(apiHandler.GetTrackHandler)).Methods(http.MethodGet)

	// A conversion holds its worker for the whole pipeline (download +
	// decode + uploads), so the write timeout must outlast the pipeline
	// budget.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.ConvertTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s...", cfg.ServerAddr)
		log.Println("Convert videos via POST to /api/convert or /api/convert/manual")
		log.Println("List tracks via GET from /api/tracks")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
