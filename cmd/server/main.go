package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audioclear/internal/api"
	"github.com/RMahshie/audioclear/internal/audiometry"
	"github.com/RMahshie/audioclear/internal/config"
	"github.com/RMahshie/audioclear/internal/denoise"
	"github.com/RMahshie/audioclear/internal/repository/postgres"
	"github.com/RMahshie/audioclear/internal/session"
	"github.com/RMahshie/audioclear/internal/storage"
	"github.com/RMahshie/audioclear/internal/tone"
	"github.com/RMahshie/audioclear/pkg/models"
)

const version = "1.0.0"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Server.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Connect to database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancelPing()
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	cancelPing()
	results := postgres.NewPostgresResultRepository(db)

	// Voice clip storage is optional; without it clips are not kept
	clips := newClipStorage(ctx, cfg.AWS)

	var decider denoise.Decider = denoise.UnavailableDecider{}
	if cfg.Denoise.DecisionURL != "" {
		decider = denoise.NewHTTPDecider(cfg.Denoise.DecisionURL, cfg.Denoise.DecisionAPIKey, cfg.Denoise.Timeout)
	} else {
		log.Warn().Msg("DENOISE_DECISION_URL not set, every clip will fall back to the original audio")
	}
	processor := denoise.NewService(decider, clips, cfg.Denoise.Timeout)

	synthCfg := tone.DefaultSynthConfig()
	synthCfg.Duration = cfg.Test.ToneDuration
	synth, err := tone.NewSynth(synthCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid tone configuration")
	}

	clock := clockwork.NewRealClock()
	sessions, err := session.NewManager(audiometry.DefaultConfig(), session.Options{
		PresentationDelay: cfg.Test.PresentationDelay,
		IdleTimeout:       cfg.Test.SessionIdleTimeout,
		Clock:             clock,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid staircase configuration")
	}
	go sessions.Run(ctx, time.Minute)

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5, "application/json"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("AudioClear API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Time = clock.Now()
		return resp, nil
	})

	// Prometheus metrics
	api.RegisterMetrics(router)

	api.RegisterRoutes(humaAPI, api.Dependencies{
		Sessions:  sessions,
		Results:   results,
		Synth:     synth,
		Processor: processor,
		Clock:     clock,
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("environment", cfg.Server.Env).Msg("Starting AudioClear API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newClipStorage returns nil unless clip storage is configured and reachable
func newClipStorage(ctx context.Context, aws config.AWSConfig) storage.ClipStorage {
	if !aws.ClipStorageConfigured() {
		log.Warn().Msg("Clip storage not configured, clips will not be stored")
		return nil
	}

	s3Cfg := storage.S3Config{
		Bucket:    aws.S3Bucket,
		Endpoint:  aws.S3Endpoint,
		Region:    aws.Region,
		AccessKey: aws.AccessKeyID,
		SecretKey: aws.SecretAccessKey,
	}
	if err := storage.EnsureBucket(ctx, s3Cfg); err != nil {
		log.Warn().Err(err).Str("bucket", s3Cfg.Bucket).Msg("Clip bucket unavailable, clips will not be stored")
		return nil
	}
	clips, err := storage.NewS3Service(ctx, s3Cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize clip storage, clips will not be stored")
		return nil
	}
	log.Info().Str("bucket", s3Cfg.Bucket).Msg("Clip storage ready")
	return clips
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("latency", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
