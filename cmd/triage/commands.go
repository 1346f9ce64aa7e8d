package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/poiesic/triage"
	"github.com/poiesic/triage/config"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/dashboard"
	"github.com/poiesic/triage/fetch"
	"github.com/poiesic/triage/ingestion"
	"github.com/poiesic/triage/reembed"
	"github.com/poiesic/triage/server"
	"github.com/poiesic/triage/tickets"
	"github.com/urfave/cli/v2"
)

func ticketsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	all, err := loadTickets(c, cfg)
	if err != nil {
		return err
	}
	copilot, err := openCopilot(cfg)
	if err != nil {
		return err
	}
	defer copilot.Close()

	results, err := copilot.ClassifyAll(c.Context, all)
	if err != nil {
		return fmt.Errorf("failed to classify tickets: %w", err)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		for _, r := range results {
			row := struct {
				ID             string              `json:"id"`
				Subject        string              `json:"subject"`
				Classification core.Classification `json:"classification"`
			}{r.Ticket.ID, r.Ticket.Subject, r.Classification}
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOPIC\tSENTIMENT\tPRIORITY\tCONF\tSUBJECT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			r.Ticket.ID,
			r.Classification.Topic,
			r.Classification.Sentiment,
			r.Classification.Priority,
			r.Classification.Confidence,
			r.Ticket.Subject)
	}
	return w.Flush()
}

func classifyCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	text, err := queryText(c, cfg)
	if err != nil {
		return err
	}
	copilot, err := openCopilot(cfg)
	if err != nil {
		return err
	}
	defer copilot.Close()

	classification := copilot.Classify(c.Context, text)
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(classification)
}

func answerCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	query, err := queryText(c, cfg)
	if err != nil {
		return err
	}
	copilot, err := openCopilot(cfg)
	if err != nil {
		return err
	}
	defer copilot.Close()

	var reply core.Answer
	if c.Bool("retrieve-only") {
		reply = copilot.Composer().Retrieve(c.Context, query)
	} else {
		reply = copilot.Answer(c.Context, query)
		fmt.Fprintf(c.App.Writer, "Topic: %s (%s, %s, %.2f)\n",
			reply.Classification.Topic,
			reply.Classification.Sentiment,
			reply.Classification.Priority,
			reply.Classification.Confidence)
	}
	fmt.Fprintf(c.App.Writer, "Answer: %s\n", reply.Text)
	if reply.Source != "" {
		fmt.Fprintf(c.App.Writer, "Cited source: %s\n", reply.Source)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dir := c.String("dir")
	if dir == "" {
		dir = cfg.Data.DocsDir
	}

	copilot, err := openCopilot(cfg)
	if err != nil {
		return err
	}
	defer copilot.Close()

	ingester, err := copilot.NewIngester(ingestion.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	defer ingester.Release()

	if c.Bool("watch") {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return ingester.Watch(ctx, dir, &ingestion.WatchOptions{
			Initial: true,
			OnIngest: func(path string, err error) {
				if err == nil {
					fmt.Fprintf(c.App.Writer, "Ingested %s\n", path)
				}
			},
		})
	}

	count, err := ingester.IngestDir(c.Context, dir)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", dir, err)
	}
	fmt.Fprintf(c.App.Writer, "Ingested %d documents from %s into %q\n", count, dir, cfg.Storage.Collection)
	return nil
}

func fetchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one URL is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	out := c.String("out")
	if out == "" {
		out = cfg.Data.DocsDir
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	opts := []fetch.Option{
		fetch.WithLogger(slog.Default()),
		fetch.WithInterval(cfg.FetchInterval()),
	}
	if timeout := cfg.FetchTimeout(); timeout > 0 {
		opts = append(opts, fetch.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	if cfg.Fetch.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(cfg.Fetch.UserAgent))
	}
	fetcher, err := fetch.NewFetcher(opts...)
	if err != nil {
		return err
	}

	var ingester *ingestion.Ingester
	if c.Bool("ingest") {
		copilot, err := openCopilot(cfg)
		if err != nil {
			return err
		}
		defer copilot.Close()
		ingester, err = copilot.NewIngester(ingestion.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		defer ingester.Release()
	}

	var errs []error
	for _, rawURL := range c.Args().Slice() {
		page, path, err := fetcher.FetchAndSave(c.Context, rawURL, out)
		if err != nil {
			slog.Warn("fetch failed", "url", rawURL, "err", err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "Saved %s to %s\n", rawURL, path)
		if ingester != nil {
			if err := ingester.IngestPage(c.Context, page); err != nil {
				errs = append(errs, fmt.Errorf("ingest %s: %w", rawURL, err))
			}
		}
	}
	return errors.Join(errs...)
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	copilot, err := openCopilot(cfg)
	if err != nil {
		return err
	}
	defer copilot.Close()

	reembedder, err := copilot.NewReembedder(reembedConfig, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Dir)
	fmt.Fprintf(os.Stderr, "Collection: %s\n", cfg.Storage.Collection)
	count, err := reembedder.Run(c.Context)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Reembedded %d documents\n", count)
	return nil
}

func dashboardCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	all, err := loadTickets(c, cfg)
	if err != nil {
		return err
	}
	copilot, err := openCopilot(cfg)
	if err != nil {
		return err
	}
	defer copilot.Close()

	results, err := copilot.ClassifyAll(c.Context, all)
	if err != nil {
		return fmt.Errorf("failed to classify tickets: %w", err)
	}

	program := tea.NewProgram(dashboard.New(copilot.Composer(), results), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	addr := c.String("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	var opts []server.Option
	opts = append(opts, server.WithLogger(slog.Default()))
	all, err := loadTickets(c, cfg)
	if err != nil {
		slog.Warn("serving without tickets", "err", err)
	} else {
		opts = append(opts, server.WithTickets(all))
	}

	copilot, err := openCopilot(cfg)
	if err != nil {
		return err
	}
	defer copilot.Close()

	srv, err := server.New(copilot, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, addr)
}

// loadConfig reads the configuration and applies the global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := c.String("db"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if name := c.String("collection"); name != "" {
		cfg.Storage.Collection = name
	}
	return cfg, nil
}

func openCopilot(cfg *config.Config) (*triage.Copilot, error) {
	copilot, err := triage.Open(cfg.Storage.Dir, triage.WithConfig(cfg), triage.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", cfg.Storage.Dir, err)
	}
	return copilot, nil
}

func loadTickets(c *cli.Context, cfg *config.Config) ([]core.Ticket, error) {
	path := c.String("file")
	if path == "" {
		path = cfg.Data.Tickets
	}
	all, err := tickets.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	return all, nil
}

// queryText returns the text of the ticket named by --ticket, or the
// command arguments joined by spaces.
func queryText(c *cli.Context, cfg *config.Config) (string, error) {
	if id := c.String("ticket"); id != "" {
		all, err := loadTickets(c, cfg)
		if err != nil {
			return "", err
		}
		ticket, ok := tickets.Find(all, id)
		if !ok {
			return "", fmt.Errorf("ticket %q not found", id)
		}
		return ticket.Text(), nil
	}
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return "", errors.New("text or --ticket is required")
	}
	return text, nil
}
