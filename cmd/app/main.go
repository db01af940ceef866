package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/stenomix/internal"
	pkgconfig "github.com/starford/stenomix/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runMode(mode internal.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithMode(mode),
			internal.WithForce(cmd.Bool("force")),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func compile(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 || cmd.Args().Len() > 2 {
		return cli.Exit("usage: stenomix compile <input> [output]", 2)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.CompileFile(ctx, cmd.Args().Get(0), cmd.Args().Get(1), internal.WithConfig(cfg))
}

func lookup(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: stenomix lookup <strokes>", 2)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Lookup(ctx, cmd.Args().First(), os.Stdout, internal.WithConfig(cfg))
}

func main() {
	forceFlag := &cli.BoolFlag{
		Name:  "force",
		Usage: "Recompile every source, not only changed ones",
	}

	cmd := &cli.Command{
		Name:   "stenomix",
		Usage:  "Compile advanced steno dictionaries with mixins and option groups into simple dictionaries",
		Action: runMode(internal.ModeServe),
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
				Name:      "compile",
				Usage:     "Compile one source document (to stdout when no output is given)",
				ArgsUsage: "<input> [output]",
				Action:    compile,
			},
			{
				Name:   "build",
				Usage:  "Compile every source document into the output directory",
				Flags:  []cli.Flag{forceFlag},
				Action: runMode(internal.ModeBuild),
			},
			{
				Name:   "watch",
				Usage:  "Build, then recompile sources as they change",
				Flags:  []cli.Flag{forceFlag},
				Action: runMode(internal.ModeWatch),
			},
			{
				Name:   "serve",
				Usage:  "Build, then serve the HTTP API while watching sources",
				Flags:  []cli.Flag{forceFlag},
				Action: runMode(internal.ModeServe),
			},
			{
				Name:   "mcp",
				Usage:  "Build, then serve MCP tools on stdin/stdout",
				Action: runMode(internal.ModeMCP),
			},
			{
				Name:      "lookup",
				Usage:     "Print the indexed translations of a stroke sequence",
				ArgsUsage: "<strokes>",
				Action:    lookup,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
