package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"menu-customizer/internal/metrics"
	"menu-customizer/internal/watch"
)

const (
	metricsReadTimeout     = 10 * time.Second
	metricsShutdownTimeout = 5 * time.Second
)

func newWatchCmd(app *App) *cobra.Command {
	var metricsAddr string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-apply the customizations whenever the host rewrites its document",
		Long: `Re-apply the customizations whenever the host rewrites its document.

Each change is debounced, then given the settle delay before the menus are
rediscovered and re-applied. Writes made by this process are ignored. With
--metrics-addr, Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.HostPath == "" {
				return writeErr(cmd, errNoHost("watch"))
			}
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			m := metrics.New()
			s, _, err := app.openSession(ctx, sessionOpts{writeHost: true, metrics: m})
			if err != nil {
				return writeErr(cmd, err)
			}

			w := watch.New(app.HostPath, s.HostChanged, watch.WithDebounce(debounce), watch.WithLogger(app.logger))
			s.Host().Saved = w.Seen
			s.ApplyAll()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := w.Start(); err != nil {
					return err
				}
				app.logger.Info("watching host document", "path", app.HostPath)
				<-gctx.Done()
				return w.Stop()
			})
			if metricsAddr != "" {
				g.Go(func() error {
					return serveMetrics(gctx, app, metricsAddr, m.Handler())
				})
			}
			err = g.Wait()
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			if err := closeSession(context.Background(), s, err); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", envOr("MENUCUSTOM_METRICS_ADDR", ""), "Serve Prometheus metrics on this address (e.g. :9876)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a file change counts")
	return cmd
}

// serveMetrics runs the metrics endpoint until ctx is done, then shuts it down gracefully.
func serveMetrics(ctx context.Context, app *App, addr string, h http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadTimeout,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	app.logger.Info("serving metrics", "addr", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
