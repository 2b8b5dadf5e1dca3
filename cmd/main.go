// Command tokenholders computes ERC-20 holder balances from Transfer event logs
// fetched over JSON-RPC.
//
// Usage:
//
//	tokenholders --contract 0x... [--decimals 6] [--sorted]
//	tokenholders --config tokenholders.yaml transfers
//	tokenholders setup
//
// Required environment variables:
//
//	INFURA_KEY when the rpc url contains {key} (the default Infura endpoint does)
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tokenholders/config"
	"github.com/vadiminshakov/tokenholders/internal/app"
	"github.com/vadiminshakov/tokenholders/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCli().RunContext(ctx, os.Args); err != nil {
		logger, _ := zap.NewProduction()
		logger.Error("tokenholders failed", zap.Error(err))
		_ = logger.Sync()
		stop()
		os.Exit(1)
	}
}

func newCli() *cli.App {
	return &cli.App{
		Name:        "tokenholders",
		Usage:       "ERC-20 holder balances from Transfer logs",
		Description: "Fetches Transfer event logs of a token contract with eth_getLogs and sums them into per-address balances",
		Flags:       config.Flags,
		Action:      runBalances,
		Commands: []*cli.Command{
			{
				Name:        "balances",
				Flags:       config.Flags,
				Description: "Print net balance per holder",
				Action:      runBalances,
			},
			{
				Name:        "transfers",
				Flags:       config.Flags,
				Description: "Print decoded Transfer events",
				Action:      runTransfers,
			},
			{
				Name:        "setup",
				Description: "Create a config file interactively",
				Action:      runSetup,
			},
		},
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newScanner(c *cli.Context) (*app.Scanner, *zap.Logger, error) {
	conf, err := config.Load(c)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(conf.Debug)
	if err != nil {
		return nil, nil, err
	}

	scanner, err := app.New(conf, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return scanner, logger, nil
}

func runBalances(c *cli.Context) error {
	scanner, logger, err := newScanner(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return scanner.Run(c.Context, c.App.Writer)
}

func runTransfers(c *cli.Context) error {
	scanner, logger, err := newScanner(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return scanner.Transfers(c.Context, c.App.Writer)
}

func runSetup(c *cli.Context) error {
	_, err := setup.RunTUI()
	return err
}
