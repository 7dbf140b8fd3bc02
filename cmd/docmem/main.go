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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docmem"
	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/mcp"
	"github.com/poiesic/docmem/reembed"
)

func main() {
	app := &cli.App{
		Name:  "docmem",
		Usage: "Tiered document memory with semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database directory",
				Value:   "./docmem_db",
				EnvVars: []string{"DOCMEM_DB"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"DOCMEM_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"DOCMEM_EMBEDDING_MODEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve memory operations as MCP tools over stdio",
				Action: serveCommand,
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a markdown file or directory into a tier",
				ArgsUsage: "<path>",
				Action:    ingestCommand,
				Flags: append(tierFlags(),
					&cli.StringSliceFlag{
						Name:    "meta",
						Aliases: []string{"m"},
						Usage:   "Metadata key=value attached to every chunk (repeatable)",
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Search memory tiers",
				ArgsUsage: "<query...>",
				Action:    queryCommand,
				Flags: append(tierFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum similarity score",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Show per-stage search progress",
					},
				),
			},
			{
				Name:      "check",
				Usage:     "Check whether a file's content is already stored in a tier",
				ArgsUsage: "<path>",
				Action:    checkCommand,
				Flags:     tierFlags(),
			},
			{
				Name:      "analyze",
				Usage:     "Analyze a markdown file without storing it",
				ArgsUsage: "<path>",
				Action:    analyzeCommand,
			},
			{
				Name:   "collections",
				Usage:  "List collections and their record counts",
				Action: collectionsCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete a record by collection and fingerprint",
				ArgsUsage: "<collection> <fingerprint>",
				Action:    deleteCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate every stored vector with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func tierFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "tier",
			Aliases: []string{"t"},
			Usage:   "Memory tier (global, learned, agent, custom)",
			Value:   "global",
		},
		&cli.StringFlag{
			Name:  "agent-id",
			Usage: "Agent identifier, required for the agent tier",
		},
		&cli.StringFlag{
			Name:  "tier-name",
			Usage: "Collection name, required for the custom tier",
		},
	}
}

func openService(c *cli.Context) (*docmem.Service, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	svc, err := docmem.NewService(c.String("db"), docmem.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return svc, nil
}

func resolveTier(c *cli.Context) (core.Tier, error) {
	return core.ParseTier(c.String("tier"), c.String("agent-id"), c.String("tier-name"))
}

func serveCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	server, err := mcp.NewServer(svc.Ports())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("serving MCP over stdio", "db", c.String("db"))
	return server.Run(ctx)
}

func ingestCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path is required")
	}

	tier, err := resolveTier(c)
	if err != nil {
		return err
	}

	metadata, err := parseMetadata(c.StringSlice("meta"))
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if info.IsDir() {
		results, err := svc.IngestDirectory(ctx, path, tier)
		if err != nil {
			return err
		}
		stored, skipped, failed := 0, 0, 0
		for _, result := range results {
			switch {
			case result.Err != nil:
				failed++
				fmt.Fprintf(os.Stderr, "failed: %s: %v\n", result.Source, result.Err)
			case result.Outcome.Stored:
				stored++
			default:
				skipped++
			}
		}
		fmt.Printf("%d documents: %d stored, %d duplicates, %d failed\n",
			len(results), stored, skipped, failed)
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	outcome, err := svc.Ingest(ctx, &core.Document{
		Source:   path,
		Text:     string(content),
		Metadata: metadata,
	}, tier)
	if err != nil {
		return err
	}

	fmt.Printf("Collection: %s\n", outcome.Collection)
	fmt.Printf("Fingerprint: %s\n", outcome.Fingerprint)
	fmt.Printf("Chunks: %d (%d duplicates, %d failed)\n",
		outcome.ChunkCount, outcome.Duplicates(), len(outcome.FailedChunks()))
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("query text is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	tier, err := resolveTier(c)
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := context.Background()
	minScore := float32(c.Float64("min-score"))
	limit := c.Int("limit")
	tiers := []core.Tier{tier}

	var results []*core.QueryResult
	if c.Bool("verbose") {
		results, err = svc.QueryWithMonitor(ctx, query, tiers, minScore, limit, &printMonitor{})
	} else {
		results, err = svc.Query(ctx, query, tiers, minScore, limit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: [%.3f] %s %s\n", i+1, hit.Score, hit.Collection, hit.Record.Fingerprint)
		fmt.Printf("   %s\n", firstLine(hit.Record.Text))
	}
	return nil
}

func checkCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path is required")
	}

	tier, err := resolveTier(c)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	check, err := svc.CheckDuplicate(context.Background(), string(content), tier)
	if err != nil {
		return err
	}

	fmt.Printf("Fingerprint: %s\n", check.Fingerprint)
	fmt.Printf("Chunks: %d (%d already stored)\n", check.ChunkCount, check.ExistingChunks)
	fmt.Printf("Duplicate: %v\n", check.Duplicate)
	return nil
}

func analyzeCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path is required")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	analysis := svc.Analyze(string(content))
	fmt.Printf("Fingerprint: %s\n", analysis.Fingerprint)
	fmt.Printf("Words: %d\n", analysis.Words)
	fmt.Printf("Sections: %d\n", analysis.Sections)
	fmt.Printf("Chunks: %d\n", analysis.Chunks)
	fmt.Printf("Summary: %s\n", analysis.Summary)
	for key, value := range analysis.Metadata {
		fmt.Printf("Metadata: %s=%s\n", key, value)
	}
	return nil
}

func collectionsCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	collections, err := svc.ListCollections(context.Background())
	if err != nil {
		return err
	}

	if len(collections) == 0 {
		fmt.Println("No collections")
		return nil
	}
	for _, collection := range collections {
		fmt.Printf("%-40s %d\n", collection.Name, collection.DocumentCount)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("collection and fingerprint are required")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	err = svc.DeleteRecord(context.Background(),
		c.Args().Get(0), core.Fingerprint(c.Args().Get(1)))
	if err != nil {
		return err
	}

	fmt.Println("Deleted")
	return nil
}

func reembedCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	reembedder, err := svc.NewReembedder(&reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
	}, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q: expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	const maxLen = 100
	if len(line) > maxLen {
		return line[:maxLen] + "..."
	}
	return line
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	// MCP traffic owns stdout; logs always go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
