// Command portal is a terminal client for the UNAYOE wellness portal. It
// drives the same stores a graphical client would: sign in, keep a diary,
// book appointments, like recommendations and watch psychologist alerts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Build metadata, set with -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt := &runtime{}
	err := newRootCmd(rt).ExecuteContext(ctx)
	if cerr := rt.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
