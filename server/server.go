package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WonFM/config"
	"WonFM/core/auth"
	"WonFM/core/diag"
	"WonFM/core/event"
	"WonFM/core/musical"
	"WonFM/core/payment"
	"WonFM/core/voice"
	"WonFM/db"
	"WonFM/logger"
	"WonFM/model"
	"WonFM/repository"
	"WonFM/storage"

	"github.com/gorilla/mux"
)

// minioStore adapts the storage package to the generator's AudioStore.
type minioStore struct{}

func (minioStore) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	return storage.UploadAudio(ctx, filename, data, contentType)
}

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.InfoLevel,
		OutputPath: "logs/wonfm.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	auth.SetJWTSecret(cfg.JWTSecret)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("Failed to connect gorm: %v", err)
	}
	defer db.CloseGormDB()
	if err := db.AutoMigrateModels(&model.PasswordReset{}); err != nil {
		log.Fatalf("Failed to migrate models: %v", err)
	}

	if err := db.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer db.CloseRedis()
	log.Println("Successfully connected to Redis")

	trackRepo := repository.NewCachedTrackRepository(repository.NewMySQLTrackRepository())
	userRepo := repository.NewMySQLUserRepository(db.DB)
	resetRepo := repository.NewGormResetRepository(db.GormDB)

	hub := event.NewHub()
	go hub.Run()
	defer hub.Stop()

	broker := auth.NewSessionBroker()
	broker.Subscribe(func(s auth.Session) {
		hub.PublishAuthChanged(string(s.State), s.User)
	})

	authFacade := auth.NewFacade(userRepo, resetRepo, broker, db.Ping, cfg.SignupDisabled)
	voiceClient := voice.NewClient(cfg.ElevenLabsAPIKey, cfg.VoiceID, cfg.ElevenLabsBaseURL)
	generator := musical.NewGenerator(voiceClient, minioStore{}, trackRepo, hub)
	payments := payment.NewClient(cfg.StripeSecretKey, cfg.StripePriceID)
	diagnostics := diag.NewSuite(diag.DefaultChecks(cfg, voiceClient))

	apiHandler := NewAPIHandler(trackRepo, userRepo, authFacade, generator, voiceClient, payments, diagnostics, hub, cfg)

	// Reload environment edits without a restart.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		if err := config.Watch(watchCtx, ".env"); err != nil {
			logger.Warn("[Config] Env watcher stopped", logger.ErrorField(err))
		}
	}()

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Generation and track endpoints
	router.HandleFunc("/api/generate-audio", apiHandler.OptionalAuth(apiHandler.GenerateAudioHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/recent", apiHandler.RecentTracksHandler).Methods(http.MethodGet)

	// Auth endpoints
	router.HandleFunc("/api/auth/signup", apiHandler.SignupHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", apiHandler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/reset-password", apiHandler.ResetPasswordHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/reset-password/confirm", apiHandler.ResetPasswordConfirmHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", apiHandler.AuthMiddleware(apiHandler.MeHandler)).Methods(http.MethodGet)

	// Diagnostics endpoints
	router.HandleFunc("/api/health", apiHandler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/test-connection", apiHandler.TestConnectionHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/diagnostics", apiHandler.DiagnosticsHandler).Methods(http.MethodGet)

	// Payments
	router.HandleFunc("/api/stripe-checkout", apiHandler.OptionalAuth(apiHandler.CheckoutHandler)).Methods(http.MethodPost)

	// Push events
	router.HandleFunc("/api/events", apiHandler.EventsHandler).Methods(http.MethodGet)

	// Serve generated audio straight from MinIO.
	router.HandleFunc("/audio/{object}", func(w http.ResponseWriter, r *http.Request) {
		objectName := mux.Vars(r)["object"]

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		object, err := storage.GetObject(ctx, objectName)
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer object.Close()

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Cache-Control", "public, max-age=31536000") // immutable once generated

		if _, err := io.Copy(w, object); err != nil {
			log.Printf("Error serving file from MinIO: %v", err)
		}
	}).Methods(http.MethodGet)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s...", cfg.ServerAddr)
		log.Println("Generate audio via POST to /api/generate-audio")
		log.Println("Check service health via GET /api/health")

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
