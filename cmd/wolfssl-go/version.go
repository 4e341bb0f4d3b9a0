package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wolfssl-go %s\n", wolfssl.WrapperVersion())
			fmt.Fprintf(out, "Engine: %s\n", wolfssl.EngineName())
			if v := wolfssl.UpstreamVersion(); v != "" {
				fmt.Fprintf(out, "wolfSSL: %s\n", v)
			} else {
				fmt.Fprintln(out, "wolfSSL: not linked")
			}
			fmt.Fprintf(out, "wolfSSL minimum: %s\n", wolfssl.UpstreamFloor)
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
