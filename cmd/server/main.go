package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"staffhub/internal/config"
	"staffhub/internal/db"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/division"
	"staffhub/internal/domain/document"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/notification"
	"staffhub/internal/domain/profile"
	"staffhub/internal/domain/reports"
	cryptoutil "staffhub/internal/platform/crypto"
	"staffhub/internal/platform/email"
	"staffhub/internal/platform/federated"
	"staffhub/internal/platform/jobs"
	"staffhub/internal/platform/metrics"
	"staffhub/internal/platform/storage"
	"staffhub/internal/realtime"
	authhandler "staffhub/internal/transport/http/handlers/auth"
	divisionhandler "staffhub/internal/transport/http/handlers/division"
	documenthandler "staffhub/internal/transport/http/handlers/document"
	leavehandler "staffhub/internal/transport/http/handlers/leave"
	notificationhandler "staffhub/internal/transport/http/handlers/notification"
	profilehandler "staffhub/internal/transport/http/handlers/profile"
	realtimehandler "staffhub/internal/transport/http/handlers/realtime"
	reportshandler "staffhub/internal/transport/http/handlers/reports"
	"staffhub/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption key invalid: %v", err)
	}

	var objectStore *storage.ObjectStore
	if cfg.StorageEndpoint != "" {
		objectStore, err = storage.New(cfg)
		if err != nil {
			log.Fatalf("object store init failed: %v", err)
		}
		if err := objectStore.EnsureBucket(ctx); err != nil {
			log.Fatalf("object store bucket check failed: %v", err)
		}
	}

	authStore := auth.NewStore(pool)
	profileStore := profile.NewStore(pool)
	profileService := profile.NewService(profileStore)
	leaveService := leave.NewService(leave.NewStore(pool))
	divisionService := division.NewService(division.NewStore(pool))
	notificationService := notification.NewService(notification.NewStore(pool), email.New(cfg), cfg.EmailFrom)
	reportsService := reports.NewService(reports.NewStore(pool))
	verifier := federated.New(cfg.FederatedTokenURL, cfg.FederatedAudience)
	hub := realtime.NewHub()
	collector := metrics.New()

	scheduler := jobs.New(pool, notificationService)
	if err := scheduler.Start(cfg.DigestSchedule); err != nil {
		log.Fatalf("digest scheduler failed: %v", err)
	}
	defer scheduler.Stop()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.AuthRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, profileStore, verifier, crypto, cfg.JWTSecret, cfg.SessionTTL, cfg.AllowSelfSignup).RegisterRoutes(r)
		profilehandler.NewHandler(profileService, hub).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, notificationService, hub).RegisterRoutes(r)
		divisionhandler.NewHandler(divisionService).RegisterRoutes(r)
		notificationhandler.NewHandler(notificationService).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, leaveService, collector, hub).RegisterRoutes(r)
		realtimehandler.NewHandler(hub).RegisterRoutes(r)

		if objectStore != nil {
			documentService := document.NewService(document.NewStore(pool), objectStore, cfg.StorageLinkTTL)
			documenthandler.NewHandler(documentService, cfg.MaxUploadBytes).RegisterRoutes(r)
		}
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	log.Printf("staffhub server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// spaHandler serves the built frontend, falling back to index.html so
// client-side routes resolve on refresh.
type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
