package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	sceneextractor "github.com/hellenic-development/scene-extractor"
	"github.com/hellenic-development/scene-extractor/pkg/snapshot"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

// maxSnapshotBytes bounds the request body of POST /extract.
const maxSnapshotBytes = 64 << 20

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extractions over HTTP",
		Long: `Start an HTTP server that extracts scene graphs on request.

  POST /extract   snapshot JSON in, scene JSON out
                  query: resolution, fps, duration, id, viewportScale
  GET  /healthz   liveness probe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			logger.Info("Listening", "addr", addr)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

func newRouter(logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/extract", extractHandler(logger))
	return r
}

func extractHandler(logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger.With("request", middleware.GetReqID(r.Context()))

		opts, err := requestOptions(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}
		opts.Logger = l

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
		if err != nil {
			httpError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		snap, err := snapshot.Decode(data)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}

		doc, err := sceneextractor.ExtractSnapshot(r.Context(), snap, opts)
		switch {
		case errors.Is(err, sceneextractor.ErrInvisibleRoot), errors.Is(err, snapshot.ErrNotFound):
			httpError(w, http.StatusUnprocessableEntity, err)
			return
		case err != nil:
			l.Error("extraction failed", "err", err)
			httpError(w, http.StatusInternalServerError, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			l.Warn("write response", "err", err)
		}
	}
}

// requestOptions reads extraction options from the query string.
func requestOptions(r *http.Request) (sceneextractor.Options, error) {
	q := r.URL.Query()
	opts := sceneextractor.Options{ArtifactID: q.Get("id")}

	if v := q.Get("resolution"); v != "" {
		w, h, err := sceneextractor.ParseResolution(v)
		if err != nil {
			return opts, err
		}
		opts.TargetWidth, opts.TargetHeight = w, h
	}
	for name, dst := range map[string]*float64{"fps": &opts.FPS, "duration": &opts.Duration} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid %s %q", name, v)
		}
		*dst = f
	}
	if v := q.Get("viewportScale"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid viewportScale %q", v)
		}
		opts.UseViewportScale = b
	}
	return opts, nil
}

func httpError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
