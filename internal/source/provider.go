package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Result is the dataset text plus where it came from. Text has any HTML
// wrapper removed; the cache file keeps the payload as downloaded.
type Result struct {
	Text      string
	Path      string
	FromCache bool
}

// Provider implements fetch-or-cache on top of a Fetcher.
type Provider struct {
	fetcher Fetcher
}

// NewProvider creates a Provider that downloads through fetcher on a cache miss.
func NewProvider(fetcher Fetcher) *Provider {
	return &Provider{fetcher: fetcher}
}

// FetchRaw returns the dataset text stored at cachePath, downloading and
// persisting the payload verbatim first if the file does not exist.
func (p *Provider) FetchRaw(ctx context.Context, cachePath string) (string, error) {
	res, err := p.Load(ctx, cachePath)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Load is FetchRaw with provenance.
func (p *Provider) Load(ctx context.Context, cachePath string) (*Result, error) {
	path, err := ExpandPath(cachePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		text, err := Unwrap(string(data))
		if err != nil {
			return nil, fmt.Errorf("%w: cache %s: %w", ErrSourceUnavailable, path, err)
		}
		return &Result{Text: text, Path: path, FromCache: true}, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	payload, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	// An unusable payload is not cached, so the next run downloads again.
	text, err := Unwrap(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	if err := writeCache(path, payload); err != nil {
		return nil, err
	}

	return &Result{Text: text, Path: path}, nil
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// writeCache stores text at path via a temporary file, so an interrupted
// write never leaves a truncated cache behind.
func writeCache(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}
