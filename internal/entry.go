// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/stenomix/internal/api"
	"github.com/starford/stenomix/internal/compiler"
	"github.com/starford/stenomix/internal/index"
	"github.com/starford/stenomix/internal/mcpserver"
	"github.com/starford/stenomix/internal/sink"
	"github.com/starford/stenomix/internal/source"
	"github.com/starford/stenomix/internal/sse"
	"github.com/starford/stenomix/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{mode: ModeServe}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logOutput == nil {
		app.logOutput = os.Stdout
		if app.mode == ModeMCP {
			app.logOutput = os.Stderr
		}
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// workspace is the storage, index and compiler shared by every mode.
type workspace struct {
	sources *storage.FS
	db      index.DictionaryIndex
	svc     *compiler.Service
}

func openWorkspace(cfg *Config, logger *slog.Logger) (*workspace, error) {
	copts, err := cfg.CompileOptions()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{cfg.Sources.Path, cfg.Output.Path} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	sources, err := storage.NewFS(cfg.Sources.Path, source.IsSource)
	if err != nil {
		return nil, fmt.Errorf("init sources: %w", err)
	}
	output, err := storage.NewFS(cfg.Output.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("init output: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	return &workspace{
		sources: sources,
		db:      db,
		svc:     compiler.NewService(sources, output, db, copts, logger),
	}, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("mode", string(app.mode)),
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sources_path", cfg.Sources.Path),
		slog.String("output_path", cfg.Output.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	ws, err := openWorkspace(cfg, logger)
	if err != nil {
		return err
	}
	defer ws.db.Close()

	rep, err := ws.svc.CompileAll(ctx, app.force)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	logger.Info("Build finished",
		slog.Int("compiled", len(rep.Compiled)),
		slog.Int("removed", len(rep.Removed)),
		slog.Int("failed", len(rep.Failed)))

	switch app.mode {
	case ModeBuild:
		if len(rep.Failed) > 0 {
			return fmt.Errorf("build: %d source(s) failed", len(rep.Failed))
		}
		return nil
	case ModeMCP:
		return mcpserver.New(ws.svc).ServeStdio()
	case ModeWatch:
		return watch(ctx, ws, logger)
	case ModeServe:
		return serve(ctx, cfg, ws, logger)
	}
	return fmt.Errorf("unknown mode %q", app.mode)
}

func watchOptions(ws *workspace) index.WatchOptions {
	return index.WatchOptions{Root: ws.sources.Root(), IsSource: source.IsSource}
}

func watch(ctx context.Context, ws *workspace, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return index.Watch(ctx, ws.db, ws.sources, ws.svc, watchOptions(ws), logger, func(kind, path string) {
		logger.Info("Source "+kind, slog.String("path", path))
	})
}

func serve(ctx context.Context, cfg *Config, ws *workspace, logger *slog.Logger) error {
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(ws.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := ws.svc.ListSources(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Recompile on change and tell SSE clients.
	g.Go(func() error {
		return index.Watch(gCtx, ws.db, ws.sources, ws.svc, watchOptions(ws), logger, broker.PublishSourceEvent)
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stop the watcher too.
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// CompileFile compiles a single source document without touching the
// index. The dictionary is written to output, or to stdout when output is
// empty; diagnostics go to the log.
func CompileFile(ctx context.Context, input, output string, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	copts, err := app.config.CompileOptions()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	res, err := compiler.CompileDocument(input, data, copts)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		logger.Warn(string(d.Kind),
			slog.String("translation", d.Translation),
			slog.String("definition", d.Definition),
			slog.String("message", d.Message))
	}

	if output == "" {
		return sink.WriteJSON(os.Stdout, res.Dictionary, copts.Sink)
	}
	out, err := sink.MarshalJSON(res.Dictionary, copts.Sink)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Info("Compiled",
		slog.String("input", input),
		slog.String("output", output),
		slog.Int("entries", res.Dictionary.Len()),
		slog.Int("diagnostics", len(res.Diagnostics)))
	return nil
}

// Lookup prints the indexed translations of a stroke sequence to w as JSON.
func Lookup(ctx context.Context, strokes string, w io.Writer, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	ws, err := openWorkspace(app.config, app.logger())
	if err != nil {
		return err
	}
	defer ws.db.Close()

	entries, err := ws.svc.Lookup(ctx, strokes)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}
