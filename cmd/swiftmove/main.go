package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/drblury/swiftmove/api"
	"github.com/drblury/swiftmove/config"
	"github.com/drblury/swiftmove/logging"
	"github.com/drblury/swiftmove/probe"
)

const name = "swiftmove"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newCommand().Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	build := api.Build()
	return &cli.Command{
		Name:    name,
		Usage:   "SwiftMove Logistics REST API",
		Version: build.Version,
		Description: `Serves CRUD endpoints for drivers, customers, orders, payments,
communications and driver performance records backed by MySQL, PostgreSQL or
SQLite, plus OpenAPI documentation at /api-docs.

Every flag can also be set through the environment variable shown in its
description, e.g. PORT=5000 DATABASE_URL=mysql://user:pass@db:3306/swiftmove.`,
		Flags:  config.Flags(),
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serve,
			},
			healthcheckCmd(),
		},
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.FromCommand(cmd)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(name, api.Build().Version, cfg.LogLevel, cfg.LogFormat)
	return api.Serve(ctx, cfg, logger)
}

// healthcheckCmd probes a running server's liveness route. It lets container
// images without curl declare a HEALTHCHECK.
func healthcheckCmd() *cli.Command {
	return &cli.Command{
		Name:  "healthcheck",
		Usage: "Exit non-zero unless the local server answers /healthz",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "liveness URL (defaults to the local server on --port)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "probe timeout",
				Value: 3 * time.Second,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			target := cmd.String("url")
			if target == "" {
				target = localHealthURL(cmd.String(config.FlagHost), cmd.Int(config.FlagPort))
			}

			check := probe.NewHTTPProbe(name, http.MethodGet, target,
				probe.WithHTTPTimeout(cmd.Duration("timeout")))
			if err := check(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, "ok")
			return nil
		},
	}
}

func localHealthURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/healthz"
}
