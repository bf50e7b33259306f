// Command linkrank computes the global and the topic-sensitive PageRank of a
// graph of documents, and blends the topic-sensitive ranks into query-specific scores.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"github.com/vertex-lab/linkrank/pkg/utils/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go HandleSignals(cancel, logger.New(os.Stderr))

	root := NewRootCmd(viper.New())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// HandleSignals() listens for OS signals and triggers context cancellation.
func HandleSignals(cancel context.CancelFunc, l *logger.Aggregate) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	<-signalChan // Block until a signal is received
	l.Info("Signal received. Shutting down...")
	cancel()
}
