package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/scratch/internal"
	pkgconfig "github.com/starford/scratch/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunTUI(ctx, internal.WithConfig(cfg))
}

func replace(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunReplace(ctx, internal.ReplaceParams{
		Search:  cmd.String("search"),
		Replace: cmd.String("replace"),
		DryRun:  cmd.Bool("dry-run"),
	}, internal.WithConfig(cfg))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "scratch",
		Usage:  "A simple note taking app with bulk search and replace",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the note store HTTP server",
				Action: serve,
			},
			{
				Name:   "tui",
				Usage:  "Open the note list in the terminal",
				Action: runTUI,
			},
			{
				Name:   "replace",
				Usage:  "Replace text in every note on the server",
				Action: replace,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "search",
						Aliases:  []string{"s"},
						Usage:    "Literal, case-sensitive text to find",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "replace",
						Aliases: []string{"r"},
						Usage:   "Replacement text",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Only list matching notes",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the local vault as MCP tools over stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
