package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brokerscope/analytics"
	"brokerscope/auth"
	"brokerscope/config"
	"brokerscope/db"
	"brokerscope/directory"
	"brokerscope/stage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("bootstrap database pool", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	dir := directory.NewRepository(pool)
	engine := analytics.NewService(analytics.NewStore(pool), dir)
	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/analytics/snapshot", snapshotHandler(engine, authService, cfg.SnapshotTimeout))

	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	go func() {
		slog.Info("listening", "addr", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")
	_ = srv.Shutdown(ctx)
}

// snapshotHandler binds the analytics engine to HTTP. The broker scope comes
// from the caller's token, never from the query string.
func snapshotHandler(engine *analytics.Service, authService *auth.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := verifyBearer(authService, r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.BrokerID == "" {
			http.Error(w, "token carries no broker scope", http.StatusForbidden)
			return
		}

		filter, err := parseFilter(claims.BrokerID, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		snap, err := engine.Snapshot(ctx, filter)
		if err != nil {
			if errors.Is(err, analytics.ErrInvalidWindow) || errors.Is(err, analytics.ErrMissingBroker) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			slog.Error("build snapshot", "broker_id", claims.BrokerID, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}
}

func verifyBearer(authService *auth.Service, r *http.Request) (auth.Claims, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return auth.Claims{}, errors.New("missing bearer token")
	}
	return authService.VerifyToken(token)
}

func parseFilter(brokerID string, r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()
	filter := analytics.Filter{
		BrokerID:   brokerID,
		ClientName: q.Get("client_name"),
	}

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return analytics.Filter{}, errors.New("start_date must be YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return analytics.Filter{}, errors.New("end_date must be YYYY-MM-DD")
		}
		filter.EndDate = &t
	}
	if v := q.Get("side"); v != "" {
		side := stage.Side(strings.ToUpper(v))
		if !side.Valid() {
			return analytics.Filter{}, errors.New("side must be BUY or SELL")
		}
		filter.Side = &side
	}

	return filter, nil
}
