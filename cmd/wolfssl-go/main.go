// wolfssl-go inspects and serves wolfssl context profiles.
//
// Usage:
//
//	# Print wrapper and engine versions
//	wolfssl-go version
//
//	# Build a profile and open one session against it
//	wolfssl-go check server.yaml
//
//	# Rebuild the profile whenever its files change and expose metrics
//	wolfssl-go watch server.yaml --listen :9464
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
