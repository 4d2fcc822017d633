package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"user-search-service/internal/client/controller"
	"user-search-service/internal/client/render"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Print one page of users matching a search",
		ArgsUsage: "[term]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number to show",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return searchUsers(ctx, c, c.Args().First(), int64(c.Int("page")))
		},
	}
}

// searchUsers fetches a single page and prints it.
func searchUsers(ctx context.Context, c *cli.Command, term string, page int64) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}

	l, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	r := render.New(os.Stdout)
	state := controller.State{Phase: controller.Loaded, SearchTerm: term, CurrentPage: page}

	result, err := client.FetchUsers(ctx, term, page)
	if err != nil {
		l.Debug("fetch failed", zap.String("search", term), zap.Int64("page", page), zap.Error(err))
		state.Phase = controller.Failed
		state.Err = err.Error()
		fmt.Println(r.State(state))
		return cli.Exit("", 1)
	}

	state.Users = result.Users
	state.TotalUsers = result.Pagination.Total
	fmt.Println(r.State(state))
	return nil
}
