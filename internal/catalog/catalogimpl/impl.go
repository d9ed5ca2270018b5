package catalogimpl

import (
	"context"
	"sync"
	"time"

	"github.com/orgball2608/insta-stories-viewer/internal/catalog"
	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/pkg/config"
	"github.com/orgball2608/insta-stories-viewer/pkg/errors"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
	"go.uber.org/fx"
)

const loadTimeout = time.Minute

type Opts struct {
	fx.In

	Source catalog.Source
	Config *config.Config
	Logger logger.Logger
}

type CatalogImpl struct {
	source  catalog.Source
	logger  logger.Logger
	refresh time.Duration

	mu      sync.RWMutex
	users   []domain.User
	loaded  bool
	lastErr error
}

var _ catalog.Catalog = (*CatalogImpl)(nil)

func New(opts Opts) *CatalogImpl {
	return &CatalogImpl{
		source:  opts.Source,
		logger:  opts.Logger.WithComponent("Catalog"),
		refresh: opts.Config.Catalog.Refresh,
	}
}

func (c *CatalogImpl) Users() ([]domain.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		cause := c.lastErr
		if cause == nil {
			cause = catalog.ErrNotLoaded
		}
		return nil, errors.WrapWithCode(cause, errors.CodeCatalogUnavailable, "catalog unavailable")
	}
	return c.users, nil
}

func (c *CatalogImpl) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Refresh loads the source now. On failure the previous collection stays in
// place. A new collection replaces the slice, so sessions already holding the
// old one never see it change.
func (c *CatalogImpl) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	started := time.Now()
	users, err := c.source.Load(ctx)
	if err != nil {
		c.logger.Error("Failed to load catalog", "source", c.source.Name(), "error", err)
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return errors.WrapWithCode(err, errors.CodeCatalogUnavailable, "load catalog")
	}

	playable, dropped := domain.Playable(users)
	for _, u := range dropped {
		c.logger.Warn("Skipping user without stories", "user_id", u.ID, "username", u.Username)
	}

	c.mu.Lock()
	c.users = playable
	c.loaded = true
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("Catalog loaded",
		"source", c.source.Name(),
		"users", len(playable),
		"dropped", len(dropped),
		"took", time.Since(started).Round(time.Millisecond).String(),
	)
	return nil
}
