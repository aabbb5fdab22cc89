package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/tabclient/internal/client/cli"
	"github.com/dmitrijs2005/tabclient/internal/client/config"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	app, closeStore, err := cli.Bootstrap(ctx, cfg, prometheus.NewRegistry(), os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("close session store: %v", err)
		}
	}()

	app.Run(ctx)
}
