package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/fetch"
)

// DefaultBatchSize is the number of documents embedded per store call.
const DefaultBatchSize = 32

// DefaultExtensions are the file types ingested from a directory.
var DefaultExtensions = []string{".txt", ".md"}

// Sink receives ingested documents.
type Sink interface {
	Add(ctx context.Context, docs ...core.Document) error
}

// Ingester reads documents from files and pages and adds them to a Sink.
type Ingester struct {
	sink       Sink
	pool       *ants.Pool
	extensions []string
	batchSize  int
	logger     *slog.Logger
}

// Option configures an Ingester.
type Option func(*Ingester) error

// WithPoolSize sets the worker pool size for reading files.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(in *Ingester) error {
		if size < 1 {
			size = 1
		}
		if in.pool != nil {
			in.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		in.pool = pool
		return nil
	}
}

// WithBatchSize sets how many documents are sent to the sink at once.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(in *Ingester) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		in.batchSize = size
		return nil
	}
}

// WithExtensions sets the file extensions picked up from directories.
// Default is DefaultExtensions.
func WithExtensions(extensions ...string) Option {
	return func(in *Ingester) error {
		if len(extensions) == 0 {
			return errors.New("at least one extension required")
		}
		in.extensions = make([]string, len(extensions))
		for i, ext := range extensions {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			in.extensions[i] = strings.ToLower(ext)
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(in *Ingester) error {
		if logger == nil {
			logger = slog.Default()
		}
		in.logger = logger
		return nil
	}
}

// NewIngester creates an Ingester writing to sink.
func NewIngester(sink Sink, opts ...Option) (*Ingester, error) {
	if sink == nil {
		return nil, ErrSinkRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	in := &Ingester{
		sink:       sink,
		pool:       pool,
		extensions: slices.Clone(DefaultExtensions),
		batchSize:  DefaultBatchSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(in); optErr != nil {
			in.Release()
			return nil, optErr
		}
	}
	in.logger = in.logger.With("component", "ingestion")
	return in, nil
}

// Ingest adds documents to the sink in batches. Failures are logged with
// "ingest failed" and returned.
func (in *Ingester) Ingest(ctx context.Context, docs ...core.Document) error {
	for start := 0; start < len(docs); start += in.batchSize {
		end := min(start+in.batchSize, len(docs))
		if err := in.sink.Add(ctx, docs[start:end]...); err != nil {
			in.logger.Error("ingest failed", "err", err, "documents", end-start)
			return err
		}
	}
	return nil
}

// IngestFile adds a single text file.
func (in *Ingester) IngestFile(ctx context.Context, path string) (*core.Document, error) {
	doc, err := in.readFile(path)
	if err != nil {
		in.logger.Error("ingest failed", "path", path, "err", err)
		return nil, err
	}
	if err := in.Ingest(ctx, *doc); err != nil {
		return nil, err
	}
	in.logger.Info("ingested file", "path", path, "source", doc.Source)
	return doc, nil
}

// IngestDir adds every supported file directly inside dir and returns the
// number of documents added. Empty files are skipped.
func (in *Ingester) IngestDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		in.logger.Error("ingest failed", "dir", dir, "err", err)
		return 0, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !in.supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	docs := make([]*core.Document, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		submitErr := in.pool.Submit(func() {
			defer wg.Done()
			docs[i], errs[i] = in.readFile(path)
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return 0, submitErr
		}
	}
	wg.Wait()

	batch := make([]core.Document, 0, len(paths))
	for i, doc := range docs {
		switch {
		case errors.Is(errs[i], ErrEmptyFile):
			in.logger.Debug("skipping empty file", "path", paths[i])
		case errs[i] != nil:
			in.logger.Error("ingest failed", "path", paths[i], "err", errs[i])
			return 0, errs[i]
		default:
			batch = append(batch, *doc)
		}
	}

	if err := in.Ingest(ctx, batch...); err != nil {
		return 0, err
	}
	in.logger.Info("ingested directory", "dir", dir, "documents", len(batch))
	return len(batch), nil
}

// IngestPage adds a fetched page, citing its URL.
func (in *Ingester) IngestPage(ctx context.Context, page *fetch.Page) error {
	if page == nil {
		return errors.New("page cannot be nil")
	}
	text := strings.TrimSpace(page.Text)
	if text == "" {
		in.logger.Error("ingest failed", "url", page.URL, "err", ErrEmptyFile)
		return fmt.Errorf("%s: %w", page.URL, ErrEmptyFile)
	}

	doc := core.Document{
		ID:     core.IDFromContent(page.URL).String(),
		Text:   text,
		Source: page.URL,
	}
	if page.Title != "" {
		doc.Metadata = map[string]string{"title": page.Title}
	}
	if err := in.Ingest(ctx, doc); err != nil {
		return err
	}
	in.logger.Info("ingested page", "url", page.URL)
	return nil
}

func (in *Ingester) supported(name string) bool {
	return slices.Contains(in.extensions, strings.ToLower(filepath.Ext(name)))
}

// readFile builds the document for path. The source is the URL from the
// fetcher's sidecar when there is one, else the path.
func (in *Ingester) readFile(path string) (*core.Document, error) {
	if !in.supported(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	source, err := fetch.ReadSource(path)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = path
	}

	return &core.Document{
		ID:       core.IDFromContent(source).String(),
		Text:     text,
		Source:   source,
		Metadata: map[string]string{"path": path},
	}, nil
}

// Release releases the worker pool.
// The ingester should not be used after calling Release.
func (in *Ingester) Release() {
	if in.pool != nil {
		in.pool.Release()
	}
}
