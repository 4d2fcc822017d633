package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"user-search-service/internal/client/api"
	"user-search-service/pkg/logger"
)

func main() {
	app := &cli.Command{
		Name:  "usersearch",
		Usage: "Search and browse the user directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the user search service",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("USERSEARCH_API_URL"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for a single fetch",
				Value: api.DefaultTimeout,
			},
			&cli.BoolFlag{
				Name:  "legacy-path",
				Usage: "Query /index.php instead of /api/users",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging on stderr",
			},
		},
		Commands: []*cli.Command{
			SearchCommand(),
			BrowseCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newClient builds the API client from the global flags.
func newClient(c *cli.Command) (*api.Client, error) {
	opts := []api.Option{api.WithTimeout(c.Duration("timeout"))}
	if c.Bool("legacy-path") {
		opts = append(opts, api.WithPath("/index.php"))
	}

	client, err := api.New(c.String("api-url"), opts...)
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	return client, nil
}

// newLogger logs to stderr so it never mixes with rendered output.
func newLogger(c *cli.Command) (*zap.Logger, error) {
	level := "warn"
	if c.Bool("debug") {
		level = "debug"
	}

	l, err := logger.NewWithConfig(logger.Config{
		Level:       level,
		Format:      "console",
		OutputPath:  "stderr",
		ServiceName: "usersearch",
		Environment: "cli",
	})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return l, nil
}
