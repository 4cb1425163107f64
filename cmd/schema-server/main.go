package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/sentoz/schema-server/internal/app"
	"github.com/sentoz/schema-server/internal/config"
	"github.com/sentoz/schema-server/internal/logger"
	"github.com/sentoz/schema-server/internal/signals"
	"github.com/sentoz/schema-server/internal/vars"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts struct {
		Config   string `short:"c" long:"config" env:"SCHEMA_SERVER_CONFIG" description:"Path to configuration file (YAML or JSON); defaults apply when omitted"`
		Listen   string `short:"l" long:"listen" env:"SCHEMA_SERVER_LISTEN" description:"Address of the public listener, overrides the config file"`
		Document string `short:"d" long:"document" env:"SCHEMA_SERVER_DOCUMENT" description:"Path of the served JSON document, overrides the config file"`
		Version  bool   `short:"v" long:"version" description:"Print build information and exit"`

		logger.Logger `group:"Logging"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		// go-flags returns an error even for --help; in that case do not treat
		// it as a failure exit code.
		if ferr, ok := err.(*flags.Error); ok && ferr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	if opts.Version {
		vars.Print(os.Stdout)
		return nil
	}

	opts.Logger.Setup()

	log.Debug().
		Str("config_path", opts.Config).
		Str("listen", opts.Listen).
		Str("document", opts.Document).
		Msg("CLI options parsed")

	cfg, err := config.Load(context.Background(), opts.Config)
	if err != nil {
		return fmt.Errorf("schema-server: load config: %w", err)
	}

	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	if opts.Document != "" {
		cfg.DocumentPath = opts.Document
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("schema-server: validate overrides: %w", err)
	}

	ctx, cancel := signals.WithSignalContext(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("schema-server: %w", err)
	}
	defer signals.GracefulShutdown(a, cfg.ShutdownTimeout.Std())

	return a.Run(ctx)
}
