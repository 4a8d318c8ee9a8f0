// Package main, folio backend uygulamasının giriş noktasıdır.
//
// Komutlar (cobra):
//
//	folio            → serve ile aynı
//	folio serve      → HTTP + WebSocket sunucusu
//	folio seed       → varsayılan içeriği veritabanına yazar
//	folio export     → mevcut projeler bölümünü seed formatında YAML olarak döker
//
// serve'ün görevi Dependency Injection "wire-up":
//  1. Config, logger, i18n ve seed (varsayılan içerik)
//  2. Database
//  3. Repository'ler
//  4. WebSocket Hub
//  5. Service'ler
//  6. Handler'lar ve şablonlar
//  7. Route'lar ve middleware chain
//  8. CORS
//  9. HTTP Server
//  10. Graceful shutdown
//
// Global değişken YOK; her şey bu fonksiyonlarda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akinalp/folio/config"
	"github.com/akinalp/folio/database"
	"github.com/akinalp/folio/middleware"
	"github.com/akinalp/folio/pkg/i18n"
	"github.com/akinalp/folio/pkg/logger"
	"github.com/akinalp/folio/seed"
	"github.com/akinalp/folio/static"
	"github.com/akinalp/folio/ws"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shutdownTimeout, açık isteklerin ve bekleyen kayıtların bitmesi için verilen süre.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Portfolio site with an inline projects editor",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP and WebSocket server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context())
			},
		},
		newSeedCmd(),
		newExportCmd(),
	)
	return root
}

// bootstrap, tüm komutların ortak başlangıcı: config, logger, i18n ve seed.
func bootstrap() (*config.Config, *zap.Logger, *seed.Defaults, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := i18n.Load(i18n.Locales()); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load i18n translations: %w", err)
	}

	defaults, err := seed.Load(cfg.Content.SeedPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, defaults, nil
}

func serve(ctx context.Context) error {
	// ─── 1. Config, Logger, i18n, Seed ───
	cfg, log, defaults, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("folio server starting",
		zap.String("addr", cfg.Server.Addr()),
		zap.Bool("editor_enabled", cfg.Content.EditorEnabled))

	// ─── 2. Database ───
	db, err := database.New(cfg.Database.Path, database.Migrations(), log.Named("db"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 4. WebSocket Hub ───
	//
	// Hub EventPublisher interface'ini implement eder; service'ler hub'a
	// doğrudan değil interface üzerinden bağımlıdır.
	hub := ws.NewHub(log.Named("hub"))

	// ─── 5. Service Layer ───
	svcs, err := initServices(ctx, repos, hub, defaults, cfg, log)
	if err != nil {
		return err
	}
	limiters := initRateLimiters(cfg)

	// Callback'ler hub.Run'dan önce bağlanmalı.
	registerHubCallbacks(hub, svcs, log.Named("hub"))
	go hub.Run()

	// ─── 6. Handler Layer ───
	tmpl, err := static.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	h := initHandlers(svcs, hub, db.Conn, tmpl, defaults.Site, cfg, log)

	// ─── 7. Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, limiters, cfg.Content.EditorEnabled, cfg.Upload.Dir, static.Assets())

	sessionMw := middleware.NewSessionMiddleware(cfg.Session.TTL, cfg.Session.CookieSecure)
	var handler http.Handler = sessionMw.Handler(mux)
	handler = middleware.RequestLogger(log.Named("http"))(handler)
	handler = chimw.Recoverer(handler)
	handler = chimw.RealIP(handler)
	handler = chimw.RequestID(handler)

	// ─── 8. CORS ───
	// Sayfa aynı origin'den sunulur; CORS sadece ayrı bir dev sunucusundan gelen istekler içindir.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: true,
	})
	handler = corsHandler.Handler(handler)

	// ─── 9. HTTP Server ───
	// WriteTimeout upload'lar için daha uzun tutulur.
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// ─── 10. Graceful Shutdown ───
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down")

	// Önce WebSocket bağlantıları, sonra HTTP server, en son bekleyen kayıtlar.
	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if err := svcs.Close(shutdownCtx); err != nil {
		log.Warn("pending saves did not finish", zap.Error(err))
	}
	limiters.Upload.Close()

	log.Info("server stopped gracefully")
	return nil
}
