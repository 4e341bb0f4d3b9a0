package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/profile"
)

func newCheckCmd(root *rootFlags) *cobra.Command {
	var noSession bool
	cmd := &cobra.Command{
		Use:   "check PROFILE",
		Short: "Build a profile and open a session",
		Long: `Build the context a profile describes and open one session on it.

The command exits non-zero with the failing step when the engine rejects
any of the profile's material.

Examples:
  wolfssl-go check server.yaml
  wolfssl-go check client.toml --no-session
  wolfssl-go check server.yaml --engine soft`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}

			engine, err := root.newEngine()
			if err != nil {
				return err
			}
			if err := wolfssl.InitEngine(engine); err != nil {
				return err
			}
			defer func() { _ = wolfssl.CleanupEngine(engine) }()

			ctx, err := p.Build(wolfssl.WithEngine(engine), wolfssl.WithLogger(logger))
			if err != nil {
				return err
			}
			defer ctx.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "profile: %s\n", args[0])
			fmt.Fprintf(out, "method: %s\n", ctx.Method())
			fmt.Fprintf(out, "engine: %s\n", engine.Name())
			if noSession {
				fmt.Fprintln(out, "context: ok")
				return nil
			}

			s, err := ctx.NewSession()
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintf(out, "session: %s ok\n", s.ID())
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSession, "no-session", false, "only build the context")
	return cmd
}
