package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/metrics"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/reload"
)

type watchFlags struct {
	listen   string
	debounce time.Duration
}

func newWatchCmd(root *rootFlags) *cobra.Command {
	flags := &watchFlags{}
	cmd := &cobra.Command{
		Use:   "watch PROFILE",
		Short: "Rebuild a profile on change and serve metrics",
		Long: `Build a profile, then rebuild it whenever the profile or any file it
references changes. A failed rebuild keeps the previous context.

Prometheus metrics are served on --listen at /metrics. Set --listen to an
empty string to disable the endpoint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, root, flags, args[0], cmd)
		},
	}
	cmd.Flags().StringVar(&flags.listen, "listen", ":9464", "metrics listen address")
	cmd.Flags().DurationVar(&flags.debounce, "debounce", 250*time.Millisecond, "delay between a file change and the rebuild")
	return cmd
}

func runWatch(ctx context.Context, root *rootFlags, flags *watchFlags, path string, cmd *cobra.Command) error {
	logger, err := root.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	engine, err := root.newEngine()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector("", nil)
	recorder, err := metrics.NewOTelRecorder(nil)
	if err != nil {
		return err
	}

	r, err := reload.New(path,
		reload.WithLogger(logger),
		reload.WithDebounce(flags.debounce),
		reload.WithReporter(reporters{collector, recorder}),
		reload.WithContextOptions(
			wolfssl.WithEngine(engine),
			wolfssl.WithObserver(wolfssl.Observers(collector, recorder)),
		),
	)
	if err != nil {
		return err
	}
	defer r.Close()

	if flags.listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: flags.listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info(ctx, "serving metrics", "addr", flags.listen)
	}

	logger.Info(ctx, "watching profile", "profile", path, "files", r.Files())
	return r.Run(ctx)
}

type reporters []reload.Reporter

func (rs reporters) Reloaded(err error) {
	for _, r := range rs {
		r.Reloaded(err)
	}
}
