// Command ompdataperf-report is the analysis CLI: it reads a capture-log
// file produced by the out-of-scope capture adapter and drives the engine
// end to end, printing the formatted report to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lmarzen/ompdataperf/pkg/logutil"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigch := make(chan os.Signal, 1)
		signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
		<-sigch
		cancel()
	}()

	root := newRootCmd(ctx)
	if err := root.Execute(); err != nil {
		logger := logutil.GetLogger()
		logger.Error("ompdataperf-report failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
