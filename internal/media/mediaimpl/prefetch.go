package mediaimpl

import (
	"context"
	"time"
)

// Prefetch loads url in the background. Failures and a saturated pool are
// only logged.
func (m *MediaImpl) Prefetch(url string) {
	if url == "" || m.cache.Contains(url) {
		return
	}

	err := m.pool.Submit(func() {
		timeout := m.prefetchTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := m.Load(ctx, url); err != nil {
			m.logger.Debug("Prefetch failed", "url", url, "error", err)
		}
	})
	if err != nil {
		m.logger.Debug("Prefetch dropped", "url", url, "error", err)
	}
}
