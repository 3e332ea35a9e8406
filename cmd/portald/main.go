package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mindengage-portal/internal/api/http"
	"github.com/mind-engage/mindengage-portal/internal/attempts"
	auth "github.com/mind-engage/mindengage-portal/internal/auth/middleware"
	"github.com/mind-engage/mindengage-portal/internal/config"
	"github.com/mind-engage/mindengage-portal/internal/db"
	"github.com/mind-engage/mindengage-portal/internal/eventlog"
	"github.com/mind-engage/mindengage-portal/internal/portal"
	"github.com/mind-engage/mindengage-portal/internal/quizbank"
	"github.com/mind-engage/mindengage-portal/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	// --- Portal content ---
	src := portal.NewSQLSource(dbh)
	if cfg.SeedDemo {
		if err := portal.Seed(ctx, src); err != nil {
			log.Fatalf("seed demo courses: %v", err)
		}
		log.Printf("demo courses seeded")
	}
	banks := quizbank.NewSQLRegistry(dbh, quizbank.Builtin())
	if err := banks.Reload(ctx); err != nil {
		log.Fatalf("load question banks: %v", err)
	}
	catalog := portal.NewCatalog(src, banks)
	hub := attempts.NewHub(catalog)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	events := eventlog.NewRepo(dbh, string(cfg.Mode))

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	dir := auth.NewDirectory(dbh, cfg.AdminUser, cfg.AdminPassHash, cfg.Mode == config.ModeOffline)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(corsOptions(cfg.CORSOrigins())))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dir))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.Mode == config.ModeOffline))
		api.MountPortal(pr, api.Deps{
			Catalog: catalog,
			Hub:     hub,
			Banks: api.BankDeps{
				Store:   banks,
				Catalog: catalog,
				Blobs:   bs,
				Events:  events,
			},
			Users:  dir,
			Events: events,
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}
