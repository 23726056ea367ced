package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/codescore/internal/score"
)

const maxRequestBytes = 32 << 20

type serveFlags struct {
	root *rootFlags
	addr string
}

func newServeCmd(rf *rootFlags) *cobra.Command {
	f := &serveFlags{root: rf}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}

func runServe(ctx context.Context, f *serveFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := f.root.loadConfig(map[string]string{"server.addr": f.addr})
	if err != nil {
		return err
	}
	log, err := f.root.logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := newPipeline(cfg, log, nil)
	if err != nil {
		return err
	}
	defer p.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           (&server{pipe: p, log: log}).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", cfg.Server.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return exitError(3, "server failed: %v", err)
	case <-ctx.Done():
		log.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// server exposes the pipeline and the engine over HTTP.
type server struct {
	pipe *pipeline
	log  *zap.SugaredLogger
}

type analyzeRequest struct {
	DirectoryPath string `json:"directoryPath"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analysis/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analysis/score", s.handleScore)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.DirectoryPath) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "directoryPath is required"})
		return
	}

	rep, err := s.pipe.run(r.Context(), req.DirectoryPath)
	if err != nil {
		status := http.StatusInternalServerError
		var ee *exitErr
		if errors.As(err, &ee) {
			switch ee.code {
			case 3:
				status = http.StatusBadRequest
			case 4:
				status = http.StatusBadGateway
			}
		}
		s.log.Warnw("analysis failed", "dir", req.DirectoryPath, "status", status, "error", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	s.log.Infow("analysis complete", "dir", rep.Input.Directory, "score", rep.Result.QualityScore)
	writeJSON(w, http.StatusOK, rep)
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	res := score.Evaluate(req.Findings, req.Metrics)
	if res.Failed() {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	return json.NewDecoder(body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
