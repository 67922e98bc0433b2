package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	FootballURL = "https://raw.githubusercontent.com/example/football.txt"
	UserAgent   = "bda-datasets/1.0 (github.com/pfrederiksen/bda-datasets)"
	Timeout     = 30 * time.Second
)

// ErrSourceUnavailable is returned when the dataset can be neither read from
// the cache nor downloaded.
var ErrSourceUnavailable = errors.New("source unavailable")

// Fetcher retrieves the raw dataset text from its remote location.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPFetcher downloads the dataset with an HTTP GET.
type HTTPFetcher struct {
	client     *http.Client
	url        string
	attempts   uint
	retryDelay time.Duration
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithAttempts sets how many times a failed download is attempted in total.
func WithAttempts(n uint) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithRetryDelay sets the base delay between attempts.
func WithRetryDelay(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) { f.retryDelay = d }
}

// NewHTTPFetcher creates a fetcher for url. By default a download is
// attempted once.
func NewHTTPFetcher(url string, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:     &http.Client{Timeout: Timeout},
		url:        url,
		attempts:   1,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the download location.
func (f *HTTPFetcher) URL() string {
	return f.url
}

// Fetch downloads the dataset and returns the response body verbatim. Any
// transport failure or non-200 status is reported as ErrSourceUnavailable.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	var text string
	err := retry.Do(func() error {
		var err error
		text, err = f.fetchOnce(ctx)
		return err
	},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, f.url, err)
	}
	return text, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}
