package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/shopster/internal/cli"
	"github.com/Makepad-fr/shopster/internal/config"
	"github.com/Makepad-fr/shopster/internal/logging"
	"github.com/Makepad-fr/shopster/internal/ui"
)

func main() {
	config.LoadEnvFile()
	cfg := config.LoadAppConfigFromEnv()

	// Root flags (apply to every subcommand)
	apiURL := flag.String("api", cfg.APIURL, "collection service base URL")
	theme := flag.String("theme", cfg.Theme, "dark, light or mono")
	group := flag.Bool("group", false, "group output by to-buy/in-cart")
	flag.Parse()
	cfg.APIURL = *apiURL
	ui.SetTheme(*theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	logger, err := initializeLogging(cfg, args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(args, cli.Options{
		Group:   *group,
		Context: ctx,
		Config:  cfg,
		Logger:  logger,
	})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	logger.Close()
	os.Exit(code)
}

// The interactive list owns the terminal, so terminal logging is dropped there.
func initializeLogging(cfg *config.AppConfig, cmd string) (*logging.Logger, error) {
	if cmd == "tui" && cfg.Logging.WritesToTerminal() {
		logger := logging.New(io.Discard, cfg.Logging)
		logging.SetDefault(logger)
		return logger, nil
	}
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(logger)
	return logger, nil
}
