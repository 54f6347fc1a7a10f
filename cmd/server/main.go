package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/liveballot/elect/internal/adapters/bus"
	"github.com/liveballot/elect/internal/adapters/handler/http"
	"github.com/liveballot/elect/internal/adapters/repository/postgres"
	"github.com/liveballot/elect/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	positionRepo := postgres.NewPositionRepository(db)
	ballotRepo := postgres.NewBallotRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	eventBus := bus.NewBroadcast(eventBufferSize())

	positionService := services.NewPositionService(positionRepo, eventBus, slog.Default())
	userService := services.NewUserService(userRepo, ballotRepo)
	voteService := services.NewVoteService(positionRepo, ballotRepo, userRepo, eventBus, slog.Default())
	authService := services.NewAuthService(userRepo, authRepo)

	handler := http.NewHandler(http.RouterConfig{
		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		Auth:      http.NewAuthHandler(authService),
		Users:     http.NewUserHandler(userService),
		Positions: http.NewPositionHandler(positionService),
		Votes:     http.NewVoteHandler(voteService),
		Events:    http.NewEventsHandler(eventBus),
	})

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	server := &stdhttp.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func eventBufferSize() int {
	size := 64
	if v := os.Getenv("EVENT_BUFFER_SIZE"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &size); err != nil {
			slog.Warn("invalid EVENT_BUFFER_SIZE, using default", "value", v)
		}
	}
	return size
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
