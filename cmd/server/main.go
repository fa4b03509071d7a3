package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kmoroz/hearth/internal/auth"
	"github.com/kmoroz/hearth/internal/middleware"
	"github.com/kmoroz/hearth/internal/notify"
	"github.com/kmoroz/hearth/internal/server"
	"github.com/kmoroz/hearth/internal/service"
	"github.com/kmoroz/hearth/internal/storage/sqlite"
	"github.com/kmoroz/hearth/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/hearth.db")
	port := getEnv("PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		slog.Error("invalid TOKEN_TTL", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", dbPath)

	hub := notify.NewHub()
	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)

	srv := server.New(
		service.NewHouseholdService(store, hub),
		service.NewChoreService(store, hub),
		service.NewShoppingService(store, hub),
		service.NewExpenseService(store, hub),
		hub,
	)

	api := http.NewServeMux()
	srv.Register(api)

	mux := http.NewServeMux()
	mux.Handle("/v1/", middleware.RequireAuth(jwtManager)(api))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Logging(middleware.Metrics(middleware.CORS(mux)))

	// h2c allows HTTP/2 without TLS; TLS termination happens upstream.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
