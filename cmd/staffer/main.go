// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/staffer"
	"github.com/poiesic/staffer/config"
	"github.com/poiesic/staffer/roster"
	"github.com/poiesic/staffer/server"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "staffer",
		Usage: "Answer staffing questions against an employee roster",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"STAFFER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"STAFFER_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "roster",
				Aliases: []string{"r"},
				Usage:   "Path to the employee roster JSON file",
				EnvVars: []string{"STAFFER_ROSTER"},
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "BadgerDB directory for cached embeddings",
				EnvVars: []string{"STAFFER_CACHE_DIR"},
			},
			&cli.StringFlag{
				Name:    "embedding-provider",
				Usage:   "Embedding provider (openai, hashing)",
				EnvVars: []string{"STAFFER_EMBEDDING_PROVIDER"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				EnvVars: []string{"STAFFER_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"STAFFER_EMBEDDING_MODEL"},
			},
			&cli.BoolFlag{
				Name:    "generator",
				Usage:   "Write answers with the generator model",
				EnvVars: []string{"STAFFER_GENERATOR"},
			},
			&cli.StringFlag{
				Name:    "generator-model",
				Usage:   "Generator model name",
				EnvVars: []string{"STAFFER_GENERATOR_MODEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						EnvVars: []string{"STAFFER_ADDR"},
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer one staffing question",
				ArgsUsage: "<query>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of candidates to consider (0 uses the configured default)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full response as JSON",
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Filter the roster by attribute",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "skill",
						Usage: "Skills separated by comma, pipe or semicolon; any may match",
					},
					&cli.IntFlag{
						Name:  "min-experience",
						Usage: "Minimum years of experience",
						Value: -1,
					},
					&cli.StringFlag{
						Name:  "project",
						Usage: "Project name substring",
					},
					&cli.StringFlag{
						Name:  "availability",
						Usage: "Availability status",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Build the index and warm the embedding cache",
				Action: indexCommand,
			},
		},
	}
}

// loadConfig reads --config (or the defaults) and applies explicitly set global flags on top.
func loadConfig(c *cli.Context) (*config.File, error) {
	file := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		file = loaded

		// the file's level applies unless --log-level was given
		if !c.IsSet("log-level") && file.LogLevel != "" {
			if err := applyLogLevel(file.LogLevel); err != nil {
				return nil, err
			}
		}
	}

	if c.IsSet("roster") {
		file.Roster = c.String("roster")
	}
	if c.IsSet("cache-dir") {
		file.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("embedding-provider") {
		file.Embedding.Provider = c.String("embedding-provider")
	}
	if c.IsSet("embedding-host") {
		file.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		file.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("generator") {
		file.Generator.Enabled = c.Bool("generator")
	}
	if c.IsSet("generator-model") {
		file.Generator.Model = c.String("generator-model")
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return file, nil
}

func engineOptions(file *config.File) []staffer.EngineOption {
	opts := []staffer.EngineOption{
		staffer.WithAIConfig(file.AIConfig()),
		staffer.WithDefaultTopK(file.TopK),
		staffer.WithLogger(slog.Default()),
	}
	if file.CacheDir != "" {
		opts = append(opts, staffer.WithCacheDir(file.CacheDir))
	}
	if file.Embedding.BatchSize > 0 {
		opts = append(opts, staffer.WithBatchSize(file.Embedding.BatchSize))
	}
	if file.Embedding.Workers > 0 {
		opts = append(opts, staffer.WithPoolSize(file.Embedding.Workers))
	}
	return opts
}

func openEngine(c *cli.Context, extra ...staffer.EngineOption) (*staffer.Engine, *config.File, error) {
	file, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	engine, err := staffer.Open(c.Context, file.Roster, append(engineOptions(file), extra...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open roster %s: %w", file.Roster, err)
	}
	return engine, file, nil
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, file, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	addr := file.Address
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	srv, err := server.New(engine, server.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	slog.Info("roster loaded", "path", file.Roster, "profiles", engine.Size())
	return srv.ListenAndServe(ctx, addr)
}

func askCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("query is required")
	}
	if c.Int("top-k") < 0 {
		return errors.New("top-k cannot be negative")
	}

	engine, _, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	resp, err := engine.Ask(c.Context, query, c.Int("top-k"))
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(c, resp)
	}
	_, err = fmt.Fprintln(c.App.Writer, resp.Answer)
	return err
}

func searchCommand(c *cli.Context) error {
	filter := roster.Filter{
		Project:      c.String("project"),
		Availability: c.String("availability"),
	}
	if n := c.Int("min-experience"); n >= 0 {
		filter.MinExperience = &n
	}

	engine, _, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	profiles, err := engine.Search(roster.SplitSkills(c.String("skill")), filter)
	if err != nil {
		return err
	}
	return writeJSON(c, profiles)
}

func indexCommand(c *cli.Context) error {
	engine, file, err := openEngine(c, staffer.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer engine.Close()

	_, err = fmt.Fprintf(c.App.Writer, "Indexed %d profiles from %s\n", engine.Size(), file.Roster)
	return err
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setupLogger(c *cli.Context) error {
	return applyLogLevel(c.String("log-level"))
}

func applyLogLevel(levelStr string) error {
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
