package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/outing-bot/app"
	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	"github.com/Black-And-White-Club/outing-bot/app/modules/member/infrastructure/parsers"
	"github.com/Black-And-White-Club/outing-bot/app/observability"
	"github.com/Black-And-White-Club/outing-bot/config"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "outing",
		Usage: "Golf outing manager",
		Commands: []*cli.Command{
			serveCommand(),
			allocateCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "Path to the configuration file",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			obs := observability.New(cfg.Observability, os.Stdout)
			application, err := app.NewApp(ctx, cfg, obs, app.Options{})
			if err != nil {
				return err
			}
			return application.Serve(ctx)
		},
	}
}

func allocateCommand() *cli.Command {
	return &cli.Command{
		Name:  "allocate",
		Usage: "Print one random allocation of the roster",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "roster",
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "Roster file (.xlsx or .csv)",
			},
			&cli.StringFlag{
				Name:  "sheet",
				Value: config.DefaultRosterSheet,
				Usage: "Worksheet holding the roster",
			},
			&cli.IntFlag{
				Name:    "size",
				Aliases: []string{"n"},
				Value:   config.DefaultGroupSize,
				Usage:   "Maximum group size",
			},
		},
		Action: func(c *cli.Context) error {
			directory, err := parsers.LoadDirectory(c.String("roster"), c.String("sheet"))
			if err != nil {
				return err
			}

			groups, err := groupservice.Allocate(directory.AvailableNames(), c.Int("size"), nil)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.App.Writer, groupservice.GroupsText(groups, directory))
			return err
		},
	}
}

