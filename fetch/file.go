package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SourceFileSuffix is appended to a saved page's file name to form the
	// sidecar holding its URL.
	SourceFileSuffix = ".url"

	maxFileStem = 200
)

// FileName returns the file name a page for rawURL is saved under: "://"
// and "/" become "_", the result is cut to 200 bytes and ".txt" appended.
func FileName(rawURL string) string {
	safe := strings.ReplaceAll(rawURL, "://", "_")
	safe = strings.ReplaceAll(safe, "/", "_")
	if len(safe) > maxFileStem {
		safe = safe[:maxFileStem]
	}
	return safe + ".txt"
}

// Save writes the page text into dir and records its URL in a sidecar.
// It returns the path of the text file.
func Save(dir string, page *Page) (string, error) {
	if page == nil {
		return "", errors.New("page cannot be nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	// The sidecar goes first so a watcher seeing the text file can read it.
	path := filepath.Join(dir, FileName(page.URL))
	if err := os.WriteFile(path+SourceFileSuffix, []byte(page.URL+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path+SourceFileSuffix, err)
	}
	if err := os.WriteFile(path, []byte(page.Text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadSource returns the URL recorded for a saved file, or "" when the
// file has no sidecar.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path + SourceFileSuffix)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// FetchAndSave fetches rawURL and saves it into dir.
func (f *Fetcher) FetchAndSave(ctx context.Context, rawURL, dir string) (*Page, string, error) {
	page, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, "", err
	}
	path, err := Save(dir, page)
	if err != nil {
		return nil, "", err
	}
	f.logger.Info("saved page", "url", rawURL, "path", path)
	return page, path, nil
}
