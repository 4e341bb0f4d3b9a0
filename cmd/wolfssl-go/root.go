package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	pionlogging "github.com/pion/logging"
	"github.com/spf13/cobra"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/logging"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/softssl"
)

type rootFlags struct {
	logLevel  string
	logFormat string
	engine    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "wolfssl-go",
		Short: "Build and watch wolfSSL context profiles",
		Long: `wolfssl-go builds wolfSSL contexts from YAML or TOML profiles.

A profile names the protocol method, trust roots, cipher list, certificate,
private key and secure renegotiation setting of one context.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log format: text, json, pion")
	cmd.PersistentFlags().StringVar(&flags.engine, "engine", "native", "engine: native (libwolfssl) or soft (no handshakes, for dry runs)")

	cmd.AddCommand(
		newVersionCmd(),
		newCheckCmd(flags),
		newWatchCmd(flags),
	)
	return cmd
}

func (f *rootFlags) logger(w io.Writer) (logging.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", f.logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(f.logFormat) {
	case "text":
		return logging.New(slog.New(slog.NewTextHandler(w, opts))), nil
	case "json":
		return logging.New(slog.New(slog.NewJSONHandler(w, opts))), nil
	case "pion":
		factory := &pionlogging.DefaultLoggerFactory{
			Writer:          w,
			DefaultLogLevel: pionLevel(level),
			ScopeLevels:     map[string]pionlogging.LogLevel{},
		}
		return logging.FromPion(factory.NewLogger("wolfssl")), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", f.logFormat)
	}
}

// newEngine resolves --engine. The software engine only validates material;
// it is never chosen unless asked for.
func (f *rootFlags) newEngine() (native.Engine, error) {
	switch strings.ToLower(f.engine) {
	case "native", "":
		return wolfssl.DefaultEngine()
	case "soft", "softssl":
		return softssl.New(), nil
	default:
		return nil, fmt.Errorf("invalid --engine %q", f.engine)
	}
}

func pionLevel(l slog.Level) pionlogging.LogLevel {
	switch {
	case l <= slog.LevelDebug:
		return pionlogging.LogLevelDebug
	case l <= slog.LevelInfo:
		return pionlogging.LogLevelInfo
	case l <= slog.LevelWarn:
		return pionlogging.LogLevelWarn
	default:
		return pionlogging.LogLevelError
	}
}
