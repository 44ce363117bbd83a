package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/DivXPro/canvas-editor-sub000/internal/auth"
	"github.com/DivXPro/canvas-editor-sub000/internal/config"
	"github.com/DivXPro/canvas-editor-sub000/internal/document"
	mw "github.com/DivXPro/canvas-editor-sub000/internal/middleware"
	"github.com/DivXPro/canvas-editor-sub000/internal/project"
	"github.com/DivXPro/canvas-editor-sub000/internal/session"
	"github.com/DivXPro/canvas-editor-sub000/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store.Store
	if cfg.DatabaseURL != "" {
		pool, err := store.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			slog.Error("migrate database", "error", err)
			os.Exit(1)
		}
		st = pg
	} else {
		slog.Warn("DATABASE_URL not set, projects are kept in memory")
		st = store.NewMemory()
	}

	projectService := project.NewService(st)
	projectHandler := project.NewHandler(projectService)

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler(authService, func(ctx context.Context, projectID string) error {
		_, err := projectService.Get(ctx, projectID)
		return err
	})

	docSaver := func(ctx context.Context, projectID string, doc *document.Document, baseVersion int) (int, error) {
		info, err := projectService.Save(ctx, projectID, doc, baseVersion)
		if err != nil {
			return 0, err
		}
		return info.Version, nil
	}
	sessions := session.NewManager(projectService.LoadDocument, docSaver, cfg.Editor)

	origins := mw.SplitOrigins(cfg.AllowedOrigins)
	sessionHandler := session.NewHandler(sessions, authService, mw.OriginHosts(origins))

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Session tokens are scoped to one project.
	r.HandleFunc("/auth/session", authHandler.CreateSession).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/projects", projectHandler.List).Methods("GET")
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{projectId}/document", projectHandler.GetLatestSnapshot).Methods("GET")
	api.HandleFunc("/projects/{projectId}/snapshots", projectHandler.ListSnapshots).Methods("GET")
	api.HandleFunc("/projects/{projectId}/snapshots/{version}", projectHandler.GetSnapshot).Methods("GET")

	// Writes need a session token for the project.
	protected := api.NewRoute().Subrouter()
	protected.Use(authService.AuthMiddleware)
	protected.HandleFunc("/projects/{projectId}", projectHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/projects/{projectId}/document", projectHandler.Save).Methods("PUT")

	r.HandleFunc("/ws/{projectId}", sessionHandler.ServeWS)

	// Preflight for every path; CORS answers it.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server", "open_sessions", sessions.Len())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
