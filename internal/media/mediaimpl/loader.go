package mediaimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"

	"github.com/orgball2608/insta-stories-viewer/internal/media"
	"github.com/orgball2608/insta-stories-viewer/pkg/retry"
)

// Load fetches url into the cache. A cached url is ready immediately.
func (m *MediaImpl) Load(ctx context.Context, url string) error {
	if url == "" {
		return media.ErrEmptyURL
	}
	if m.cache.Contains(url) {
		return nil
	}

	parsed, err := neturl.Parse(url)
	if err != nil {
		return fmt.Errorf("invalid media url %q: %w", url, err)
	}

	return retry.Do(ctx, m.logger, "load media", func() error {
		if m.limiter != nil {
			if err := m.limiter.Wait(ctx, parsed.Host); err != nil {
				return retry.Permanent(err)
			}
		}

		entry, err := m.fetch(ctx, url)
		if err != nil {
			return err
		}
		m.cache.Add(url, entry)
		return nil
	}, m.retry)
}

func (m *MediaImpl) fetch(ctx context.Context, url string) (media.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return media.Entry{}, retry.Permanent(fmt.Errorf("failed to build media request: %w", err))
	}

	resp, err := m.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return media.Entry{}, retry.Permanent(ctx.Err())
		}
		return media.Entry{}, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d for %s", media.ErrBadStatus, resp.StatusCode, url)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return media.Entry{}, retry.Permanent(err)
		}
		return media.Entry{}, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return media.Entry{}, fmt.Errorf("failed to read media body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return media.Entry{ContentType: contentType, Data: data}, nil
}
