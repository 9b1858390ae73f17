package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var (
	flagAddr string
	flagLive bool
)

func init() {
	addPipelineFlags(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&flagLive, "live", false, "recompose on every request instead of serving a cached result")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the composed collage over HTTP for previewing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := composeConfig(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return serve(ctx, cfg)
	},
}

// previewServer caches the last successful composition so the static
// mode does not recompose on every request.
type previewServer struct {
	cfg *config

	mu     sync.Mutex
	cached *composeResult
}

func (s *previewServer) result(ctx context.Context) (*composeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil && !flagLive {
		return s.cached, nil
	}
	res, err := runPipeline(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	s.cached = res
	return res, nil
}

func (s *previewServer) handleCollage(w http.ResponseWriter, r *http.Request) {
	res, err := s.result(r.Context())
	if err != nil {
		slog.Error("compose failed", "error", err)
		http.Error(w, "composition failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", `"`+res.Hash+`"`)
	w.Write([]byte(res.Text))
}

func serve(ctx context.Context, cfg *config) error {
	s := &previewServer{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleCollage)
	r.Get("/collage.svg", s.handleCollage)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: flagAddr, Handler: r}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	slog.Info("serving", "addr", flagAddr, "live", flagLive)
	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errc:
		return err
	}
}
