package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sceap/internal/auth"
	"sceap/internal/calc/sizing"
	"sceap/internal/catalog"
	"sceap/internal/config"
	"sceap/internal/importer"
	"sceap/internal/metrics"
	"sceap/internal/project"
	"sceap/internal/repo"
	"sceap/internal/report"
	"sceap/internal/routing"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(router *mux.Router, cfg config.Config, db *sql.DB, store *catalog.Store, log *slog.Logger) {
	authEnv := &auth.Env{JWTKey: []byte(cfg.TokenKey), Log: log}
	var projectH *project.Handler
	if db != nil {
		userRepo := repo.NewPostgresDB(db)
		authEnv.Repo = userRepo
		projectH = &project.Handler{Repo: userRepo, Log: log}
	}

	network := cfg.Network
	if network == nil {
		network = routing.SampleNetwork()
	}

	sizingH := &sizing.Handler{Catalogs: store, Log: log, DefaultStandard: cfg.DefaultStandard}
	importH := &importer.Handler{Store: store, Log: log, DefaultStandard: cfg.DefaultStandard}
	routingH := &routing.Handler{Network: network, Log: log}
	reportH := &report.Handler{}

	limiter := auth.NewIPRateLimiter(1, 3)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service": "SCEAP Cable Engineering API",
			"version": "1.0.0",
			"docs":    "/api/v1/health",
		})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(metrics.Middleware)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "healthy",
			"db_degraded": store.Degraded(),
			"features": []string{
				"cable_sizing", "bulk_import", "catalog_upload",
				"routing", "projects", "reports",
			},
		})
	}).Methods("GET")

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureAPI := api.NewRoute().Subrouter()
	secureAPI.Use(limiter.LimitMiddleware)
	if cfg.AppEnv == "production" {
		secureAPI.Use(authEnv.AuthMiddleware)
	}

	secureAPI.HandleFunc("/cable/size", sizingH.Single).Methods("POST")
	secureAPI.HandleFunc("/cable/size_bulk", sizingH.Bulk).Methods("POST")
	secureAPI.HandleFunc("/cable/standards", sizingH.Standards).Methods("GET")
	secureAPI.HandleFunc("/cable/sizes", sizingH.Sizes).Methods("GET")

	secureAPI.HandleFunc("/cable/import", importH.CableImport).Methods("POST")
	secureAPI.HandleFunc("/cable/import/template", importH.ImportTemplate).Methods("GET")
	secureAPI.HandleFunc("/catalog/upload", importH.CatalogUpload).Methods("POST")
	secureAPI.HandleFunc("/catalog/template", importH.CatalogTemplate).Methods("GET")
	secureAPI.HandleFunc("/catalogs", importH.CatalogList).Methods("GET")
	secureAPI.HandleFunc("/catalog/{name}", importH.CatalogGet).Methods("GET")

	secureAPI.HandleFunc("/routing/auto", routingH.Auto).Methods("POST")
	secureAPI.HandleFunc("/routing/optimize", routingH.Optimize).Methods("POST")
	secureAPI.HandleFunc("/routing/trays", routingH.Trays).Methods("GET")
	secureAPI.HandleFunc("/routing/graph", routingH.Graph).Methods("GET")

	secureAPI.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")

	if projectH != nil {
		secureAPI.HandleFunc("/project/setup", projectH.Setup).Methods("POST")
		secureAPI.HandleFunc("/projects", projectH.List).Methods("GET")
		secureAPI.HandleFunc("/cable/save_bulk", projectH.SaveBulk).Methods("POST")
		secureAPI.HandleFunc("/project/{project_id}/cables", projectH.Cables).Methods("GET")
		secureAPI.HandleFunc("/project/{project_id}/cable/{cable_id}/approve", projectH.Approve).Methods("POST")
		secureAPI.HandleFunc("/project/{project_id}/cable/{cable_number}", projectH.Upsert).Methods("PUT")
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	if cfg.AppEnv == "development" {
		logHandler = slog.NewTextHandler(os.Stdout, nil)
	}
	log := slog.New(logHandler)
	slog.SetDefault(log)
	if cfg.TokenKey == "" && cfg.AppEnv == "production" {
		log.Error("TOKEN_KEY environment variable is not set")
		os.Exit(1)
	}

	db, err := auth.InitDB()
	if err != nil {
		log.Warn("database unavailable, running with in-memory catalogs", "err", err)
		db = nil
	} else {
		defer db.Close()
		if err := repo.NewPostgresDB(db).EnsureSchema(ctx); err != nil {
			log.Error("ensure schema", "err", err)
			os.Exit(1)
		}
	}

	store := catalog.NewStore(db, log)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Warn("catalog schema", "err", err)
	}

	router := mux.NewRouter()
	HandleList(router, cfg, db, store, log)
	handler := CORS(router)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	log.Info("starting server", "addr", cfg.Addr, "env", cfg.AppEnv)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "err", err)
		os.Exit(1)
	}
	log.Info("server stopped")

	wg.Wait()
}
