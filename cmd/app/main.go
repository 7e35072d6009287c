package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/andreasscherbaum/check-markdown-files/internal"
	"github.com/andreasscherbaum/check-markdown-files/internal/batch"
	"github.com/andreasscherbaum/check-markdown-files/internal/cache"
	"github.com/andreasscherbaum/check-markdown-files/internal/checksum"
	"github.com/andreasscherbaum/check-markdown-files/internal/exiftool"
	"github.com/andreasscherbaum/check-markdown-files/internal/gitignore"
	"github.com/andreasscherbaum/check-markdown-files/internal/mcpserver"
	"github.com/andreasscherbaum/check-markdown-files/internal/runner"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
	pkgconfig "github.com/andreasscherbaum/check-markdown-files/pkg/config"
)

// loadConfig resolves the config file (flag value or tree-upward search),
// loads and validates it, and resolves the include files.
func loadConfig(cmd *cli.Command) (*internal.Config, string, error) {
	path := cmd.String("config")
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		path, err = pkgconfig.Find(internal.DefaultConfigName, cwd)
		if err != nil {
			return nil, "", fmt.Errorf("no config file given, and none found in the standard locations: %w", err)
		}
	}

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.LoadIncludes(filepath.Dir(path)); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// setupCLILogger installs a text logger on stderr with the level derived
// from the verbose/quiet flags.
func setupCLILogger(cmd *cli.Command) error {
	if cmd.Bool("verbose") && cmd.Bool("quiet") {
		return fmt.Errorf("--verbose and --quiet can't be set at the same time")
	}
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	if cmd.Bool("quiet") {
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// runChecks is the default action: check the named files, or walk the
// content directories when none are given.
func runChecks(ctx context.Context, cmd *cli.Command) error {
	if err := setupCLILogger(cmd); err != nil {
		return err
	}

	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read %s: %w", configPath, err)
	}
	configStat, err := os.Stat(configPath)
	if err != nil {
		return err
	}

	store := storage.NewFS()
	proc := runner.NewProcessor(store, runner.New(cfg.Catalog(gitignore.IsIgnored, exiftool.Read)))
	proc.DryRun = cmd.Bool("dry-run")
	proc.PrintDry = cmd.Bool("print-dry")

	driver := batch.NewDriver(store, proc)
	driver.ContentDirs = cfg.ContentDirs
	driver.ConfigModTime = configStat.ModTime()
	driver.ConfigSum = checksum.Sum(configData)
	driver.All = cmd.Bool("all")

	if cfg.CachePath != "" {
		db, err := cache.Open(cfg.CachePath)
		if err != nil {
			return err
		}
		defer db.Close()
		driver.Cache = db
	}

	files := cmd.Args().Slice()
	if len(files) > 0 {
		files, err = batch.ResolveArgs(files)
		if err != nil {
			return err
		}
	} else {
		files, err = driver.Discover()
		if err != nil {
			return err
		}
	}

	rc, err := driver.Run(ctx, files)
	if err != nil {
		return err
	}
	if rc != 0 {
		return cli.Exit("", rc)
	}
	return nil
}

// runServe starts the HTTP lint server.
func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// runMCP starts the MCP server on stdin/stdout.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	// MCP talks JSON-RPC on stdout, keep logging on stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	srv := mcpserver.New(storage.NewFS(), runner.New(cfg.Catalog(gitignore.IsIgnored, exiftool.Read)))
	return srv.ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "check-markdown-files",
		Usage:  "Check Markdown blog postings for common mistakes before publishing",
		Action: runChecks,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "searched tree-upwards from the working directory",
				Sources:     cli.EnvVars("CHECK_MARKDOWN_FILES_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Be more verbose",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Be quiet",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Check all files, not only the ones newer than the config file",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Dry-run (don't change anything)",
			},
			&cli.BoolFlag{
				Name:    "print-dry",
				Aliases: []string{"p"},
				Usage:   "Print result in dry-run mode",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP lint server with live re-checking",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdin/stdout",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			if msg := err.Error(); msg != "" {
				slog.Error(msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
