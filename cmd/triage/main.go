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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "triage",
		Usage: "Classify support tickets and answer them from the knowledge base",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (default: triage.yaml if present)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the document store directory (overrides config and TRIAGE_DB_DIR)",
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "Document collection name",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "tickets",
				Usage:  "Classify every ticket in the ticket file",
				Action: ticketsCommand,
				Flags: []cli.Flag{
					ticketsFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print one JSON object per ticket",
					},
				},
			},
			{
				Name:      "classify",
				Usage:     "Classify a ticket or free text",
				ArgsUsage: "[text...]",
				Action:    classifyCommand,
				Flags: []cli.Flag{
					ticketsFlag(),
					&cli.StringFlag{
						Name:    "ticket",
						Aliases: []string{"t"},
						Usage:   "Ticket ID to classify instead of text",
					},
				},
			},
			{
				Name:      "answer",
				Usage:     "Answer a ticket or question",
				ArgsUsage: "[query...]",
				Action:    answerCommand,
				Flags: []cli.Flag{
					ticketsFlag(),
					&cli.StringFlag{
						Name:    "ticket",
						Aliases: []string{"t"},
						Usage:   "Ticket ID to answer instead of a query",
					},
					&cli.BoolFlag{
						Name:  "retrieve-only",
						Usage: "Skip classification and answer from the nearest documents",
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Add .txt and .md files from the docs directory to the store",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory to ingest (defaults to the configured docs directory)",
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Keep watching the directory for new and modified files",
					},
				},
			},
			{
				Name:      "fetch",
				Usage:     "Fetch documentation pages as text into the docs directory",
				ArgsUsage: "URL...",
				Action:    fetchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output directory (defaults to the configured docs directory)",
					},
					&cli.BoolFlag{
						Name:  "ingest",
						Usage: "Also add each fetched page to the store",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed every document with the configured embedder",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to embed per call",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 64,
					},
				},
			},
			{
				Name:   "dashboard",
				Usage:  "Open the terminal dashboard",
				Action: dashboardCommand,
				Flags:  []cli.Flag{ticketsFlag()},
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					ticketsFlag(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (defaults to the configured address)",
					},
				},
			},
		},
	}
}

func ticketsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "file",
		Usage: "Path to the JSONL ticket file (defaults to the configured file)",
	}
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
