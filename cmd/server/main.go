package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrimonio/tracker-backend/internal/adapter/repository/postgres"
	"github.com/patrimonio/tracker-backend/internal/adapter/rest"
	"github.com/patrimonio/tracker-backend/internal/auth"
	authuc "github.com/patrimonio/tracker-backend/internal/usecase/auth"
	"github.com/patrimonio/tracker-backend/internal/usecase/snapshot"
)

const (
	defaultJWTSecret = "dev-secret"
	defaultHTTPAddr  = ":5000"
	shutdownTimeout  = 10 * time.Second
)

func main() {
	// Amounts go over the wire as JSON numbers, matching the client.
	decimal.MarshalJSONWithoutQuotes = true

	// 1. Setup Database
	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost" // Default for local run without docker
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "patrimonio"
		}

		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Database schema ready")

	// 2. Initialize Repositories (Postgres)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// 3. Initialize Services (Use Cases)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = defaultJWTSecret
		log.Println("JWT_SECRET not set, using development default")
	}
	tokenManager := auth.NewTokenManager(jwtSecret, auth.DefaultTTL)

	snapshotService := snapshot.NewService(snapshotRepo)
	authService := authuc.NewService(userRepo, tokenManager)

	// 4. Start HTTP Server
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = defaultHTTPAddr
	}

	var allowedOrigins []string
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		allowedOrigins = []string{origin}
	}

	restServer := rest.NewServer(snapshotService, authService, tokenManager, allowedOrigins)

	server := &http.Server{
		Addr:    httpAddr,
		Handler: restServer.Router(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(server)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
