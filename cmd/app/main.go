package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/hieroscope/internal"
	"github.com/starford/hieroscope/internal/catalog"
	"github.com/starford/hieroscope/internal/models"
	pkgconfig "github.com/starford/hieroscope/pkg/config"
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

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func today(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	size, ok := models.ParseWidgetSize(cmd.String("size"))
	if !ok {
		return fmt.Errorf("invalid size %q", cmd.String("size"))
	}

	rt, err := internal.Open(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	defer rt.Close()

	at := rt.Now()
	if raw := cmd.String("date"); raw != "" {
		at, err = time.ParseInLocation("2006-01-02", raw, at.Location())
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", raw, err)
		}
	}
	fmt.Println(rt.Service.Render(ctx, size, at))
	return nil
}

func setOption(ctx context.Context, cmd *cli.Command) error {
	label := cmd.Args().First()
	if label == "" {
		return fmt.Errorf("usage: set-option <label>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := internal.Open(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Service.SetDisplayOption(ctx, models.DisplayOption(label)); err != nil {
		return err
	}
	fmt.Printf("display option set: %s\n", label)
	return nil
}

func initCatalog(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.String("out")
	if out == "" {
		out = cfg.Catalog.Path
	}
	if out == "" {
		return fmt.Errorf("no catalog path: set catalog.path or pass --out")
	}
	if _, err := os.Stat(out); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", out)
	}
	if err := catalog.WriteFile(out, catalog.Bundled()); err != nil {
		return err
	}
	fmt.Printf("catalog written: %s\n", out)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "hieroscope",
		Usage:   "Widget backend showing the day, a mantra or the current small season",
		Version: internal.Version,
		Action:  serve,
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
				Usage:  "Run the HTTP API and reload stream",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdio",
				Action: serveMCP,
			},
			{
				Name:   "today",
				Usage:  "Print the widget text for the stored display option",
				Action: today,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "size", Usage: "small, medium or large", Value: "small"},
					&cli.StringFlag{Name: "date", Usage: "Reference date YYYY-MM-DD (default: today)"},
				},
			},
			{
				Name:      "set-option",
				Usage:     "Store the display option (Days of the Week, Mantras, Small Seasons)",
				ArgsUsage: "<label>",
				Action:    setOption,
			},
			{
				Name:   "init-catalog",
				Usage:  "Write the bundled catalog to disk for editing",
				Action: initCatalog,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "Destination (default: catalog.path)"},
					&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing file"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
