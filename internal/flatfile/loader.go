package flatfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/model"
)

// DefaultSource is the file name of the published classification export.
const DefaultSource = "toimiala_1_20250101.csv"

// Loader fetches the classification file from a local path or an http(s) URL.
type Loader struct {
	client *http.Client
	retry  common.RetryOptions
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = client
	}
}

// WithRetryOptions sets the retry policy for URL sources.
func WithRetryOptions(opts common.RetryOptions) LoaderOption {
	return func(l *Loader) {
		l.retry = opts
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		retry:  common.DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and parses source. A failed fetch is not fatal: Load returns
// an empty record set together with the cause, which callers may log but
// should otherwise treat as "no classifications available".
func (l *Loader) Load(ctx context.Context, source string) ([]model.ClassificationRecord, error) {
	data, err := l.fetch(ctx, source)
	if err != nil {
		slog.Warn("classification source unavailable, continuing without classifications",
			"source", source,
			"error", err)
		return []model.ClassificationRecord{}, fmt.Errorf("%w: %w", common.ErrSourceUnavailable, err)
	}

	records := Parse(bytes.NewReader(data))
	if records == nil {
		records = []model.ClassificationRecord{}
	}
	slog.Info("loaded classifications", "source", source, "count", len(records))
	return records, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: no classification source", common.ErrMissingConfig)
	}
	if !IsURL(source) {
		data, err := os.ReadFile(source) //nolint:gosec // source comes from user configuration
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return data, nil
	}

	var data []byte
	err := common.WithRetry(ctx, func() error {
		body, fetchErr := l.get(ctx, source)
		if fetchErr != nil {
			return fetchErr
		}
		data = body
		return nil
	}, l.retry)
	if err != nil {
		return nil, err
	}
	// A result that arrives after cancellation is discarded.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return data, nil
}

func (l *Loader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, common.Permanent(fmt.Errorf("failed to build request: %w", err))
	}

	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, common.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.ErrRateLimit
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("fetch %s: server returned %s", url, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, common.Permanent(fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return body, nil
}

// IsURL reports whether source names an http(s) resource rather than a file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
