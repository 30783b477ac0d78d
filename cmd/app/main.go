package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// @title fxdesk API
// @version 1.0
// @description Daily exchange rate tables with day-over-day changes, live conversion, news and history.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
