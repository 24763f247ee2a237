// @title Community Portal
// @version 1.0
// @description Server-rendered community portal: accounts, contact inquiries and newsletter, with HTMX live validation.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"community-portal/internal/config"
	"community-portal/internal/handlers"
	"community-portal/internal/middleware"
	"community-portal/internal/render"
	"community-portal/internal/repository/postgres"
	"community-portal/internal/routes"
	"community-portal/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pool, err := connect(cfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	// Repositories and shared services.
	users := postgres.NewUserRepo(pool)
	profiles := postgres.NewProfileRepo(pool)
	contacts := postgres.NewContactRepo(pool)
	newsletter := postgres.NewNewsletterRepo(pool)
	verifications := postgres.NewVerificationRepo(pool)

	renderer := render.New()
	emailService := utils.NewEmailService(&cfg.Email)
	lookup := handlers.NewLookup(users, contacts, newsletter)

	mux := routes.Setup(cfg, routes.Handlers{
		Auth:       handlers.NewAuthHandler(cfg, renderer, users, verifications, emailService, lookup),
		Profile:    handlers.NewProfileHandler(cfg, renderer, users, profiles, lookup),
		Contact:    handlers.NewContactHandler(cfg, renderer, contacts, newsletter, emailService, lookup),
		Newsletter: handlers.NewNewsletterHandler(renderer, newsletter, lookup),
		Validation: handlers.NewValidationHandler(renderer, lookup),
		Health:     handlers.NewHealthHandler(pool),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
	handler := c.Handler(middleware.WithSession(mux, &cfg.Session))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}

// connect builds the pgx pool. The simple protocol keeps the app compatible
// with transaction-mode poolers like PgBouncer.
func connect(cfg *config.Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, err
	}
	pc.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pc.ConnConfig.RuntimeParams["application_name"] = "community-portal"
	pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.Database.QueryTimeout.Milliseconds(), 10)
	pc.MaxConns = cfg.Database.MaxConns
	pc.MinConns = cfg.Database.MinConns
	pc.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), pc)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
