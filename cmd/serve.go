package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/picker-cli/internal/catalog"
	"github.com/sells-group/picker-cli/internal/model"
	"github.com/sells-group/picker-cli/internal/picker"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the picker HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPicker(ctx, "serve")
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env, cfg.Server.AllowedOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the browser-facing API. The UI is served as a static page
// elsewhere, so every route is CORS-enabled.
func newRouter(env *pickerEnv, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/catalog", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, env.Candidates)
	})

	r.Get("/api/categories", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Categories(env.Candidates))
	})

	r.Get("/api/outcome", func(w http.ResponseWriter, req *http.Request) {
		outcome := env.Picker.Current()
		if outcome == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no pick yet"})
			return
		}
		writeJSON(w, http.StatusOK, outcome)
	})

	r.Post("/api/pick", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Categories []string `json:"categories"`
			Lat        *float64 `json:"lat"`
			Lng        *float64 `json:"lng"`
		}
		if req.Body != nil && req.ContentLength != 0 {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
		}

		pickReq := picker.Request{Categories: body.Categories}
		if body.Lat != nil && body.Lng != nil {
			pickReq.Coordinate = &model.Coordinate{Lat: *body.Lat, Lng: *body.Lng}
		}

		outcome, err := env.Picker.Pick(req.Context(), pickReq)
		if err != nil {
			if errors.Is(err, picker.ErrBusy) {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "a pick is already in progress"})
				return
			}
			zap.L().Error("pick failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "pick failed"})
			return
		}

		writeJSON(w, http.StatusOK, outcome)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
