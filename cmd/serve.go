package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/census-lookup/internal/dataset"
	"github.com/sells-group/census-lookup/internal/geoid"
	"github.com/sells-group/census-lookup/internal/lookup"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP geocoding API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		svc, mgr, err := initService()
		if err != nil {
			return err
		}
		defer mgr.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(svc),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("http server listening", zap.String("addr", srv.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return eris.Wrap(err, "http server")
		case <-ctx.Done():
		}

		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func newRouter(svc *lookup.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/geocode", handleGeocode(svc))
	r.Post("/geocode/batch", handleGeocodeBatch(svc))
	return r
}

type geocodeRequest struct {
	Address   string   `json:"address"`
	Level     string   `json:"level"`
	Variables []string `json:"variables"`
}

type batchRequest struct {
	Addresses []string `json:"addresses"`
	Level     string   `json:"level"`
	Variables []string `json:"variables"`
}

type apiError struct {
	Error string `json:"error"`
}

func handleGeocode(svc *lookup.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req geocodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{"invalid JSON body"})
			return
		}
		if req.Address == "" {
			writeJSON(w, http.StatusBadRequest, apiError{"address is required"})
			return
		}
		level, err := parseLevel(req.Level)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{err.Error()})
			return
		}

		result, err := svc.Geocode(r.Context(), lookup.Request{
			Address:   req.Address,
			Level:     level,
			Variables: req.Variables,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleGeocodeBatch(svc *lookup.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{"invalid JSON body"})
			return
		}
		if len(req.Addresses) == 0 {
			writeJSON(w, http.StatusBadRequest, apiError{"addresses is required"})
			return
		}
		level, err := parseLevel(req.Level)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{err.Error()})
			return
		}

		results, err := svc.GeocodeBatch(r.Context(), req.Addresses, level, req.Variables)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": results})
	}
}

func parseLevel(s string) (geoid.Level, error) {
	if s == "" {
		return geoid.LevelBlock, nil
	}
	return geoid.ParseLevel(s)
}

func writeServiceError(w http.ResponseWriter, err error) {
	zap.L().Error("request failed", zap.Error(err))
	if errors.Is(err, dataset.ErrDatasetUnavailable) {
		writeJSON(w, http.StatusServiceUnavailable, apiError{err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, apiError{"internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
