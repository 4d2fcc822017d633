package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"user-search-service/internal/client/controller"
	"user-search-service/internal/client/render"
)

const browseHelp = "Type to search. :n next page, :p previous page, :g N go to page, :q quit."

// BrowseCommand creates the interactive browse command
func BrowseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse users interactively",
		Action: func(ctx context.Context, c *cli.Command) error {
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
			ctrl := controller.New(ctx, client,
				controller.WithLogger(l),
				controller.WithOnChange(func(s controller.State) {
					if s.Phase == controller.Debouncing {
						return
					}
					fmt.Fprintln(os.Stdout, r.State(s))
				}),
			)
			defer ctrl.Close()

			fmt.Println(r.Header())
			fmt.Println(browseHelp)
			return browse(ctx, os.Stdin, os.Stdout, ctrl)
		},
	}
}

type commandKind int

const (
	cmdSearch commandKind = iota
	cmdNext
	cmdPrev
	cmdGoto
	cmdQuit
)

type command struct {
	kind commandKind
	term string
	page int64
}

// parseCommand interprets one input line. Anything that is not a
// colon command is search text.
func parseCommand(line string) (command, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		return command{kind: cmdSearch, term: line}, nil
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case ":n":
		return command{kind: cmdNext}, nil
	case ":p":
		return command{kind: cmdPrev}, nil
	case ":q":
		return command{kind: cmdQuit}, nil
	case ":g":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("usage: :g N")
		}
		page, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || page < 1 {
			return command{}, fmt.Errorf("invalid page %q", fields[1])
		}
		return command{kind: cmdGoto, page: page}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// browse feeds input lines to the controller until :q or end of input.
// At end of input the last search is fetched without waiting out the
// debounce, so piped input still prints its result.
func browse(ctx context.Context, in io.Reader, out io.Writer, ctrl *controller.Controller) error {
	// Show the unfiltered listing first.
	ctrl.SetSearch("")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		switch cmd.kind {
		case cmdSearch:
			ctrl.SetSearch(cmd.term)
		case cmdNext:
			ctrl.NextPage()
		case cmdPrev:
			ctrl.PrevPage()
		case cmdGoto:
			ctrl.SetPage(cmd.page)
		case cmdQuit:
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return ctrl.Settle(ctx)
}
