package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/rlourenco/bicicletario/internal/buildinfo"
	"github.com/rlourenco/bicicletario/internal/cli"
	"github.com/rlourenco/bicicletario/internal/config"
	"github.com/rlourenco/bicicletario/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
