package mediaimpl

import (
	"context"
	"fmt"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/orgball2608/insta-stories-viewer/internal/media"
	"github.com/orgball2608/insta-stories-viewer/internal/ratelimit"
	"github.com/orgball2608/insta-stories-viewer/pkg/config"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
	"github.com/orgball2608/insta-stories-viewer/pkg/retry"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

const maxMediaBytes = 32 << 20

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
}

type MediaImpl struct {
	client          *http.Client
	cache           *lru.Cache[string, media.Entry]
	limiter         ratelimit.Limiter
	pool            *ants.Pool
	logger          logger.Logger
	retry           retry.Config
	prefetchTimeout time.Duration
}

var (
	_ media.Loader     = (*MediaImpl)(nil)
	_ media.Prefetcher = (*MediaImpl)(nil)
	_ media.Cache      = (*MediaImpl)(nil)
)

type settings struct {
	Client          *http.Client
	CacheSize       int
	Workers         int
	Limiter         ratelimit.Limiter
	Retry           retry.Config
	PrefetchTimeout time.Duration
	Logger          logger.Logger
}

func New(opts Opts) (*MediaImpl, error) {
	cfg := opts.Config
	m, err := newMedia(settings{
		Client:          &http.Client{Timeout: cfg.Viewer.MediaTimeout},
		CacheSize:       cfg.Media.CacheSize,
		Workers:         cfg.Media.PrefetchWorkers,
		Limiter:         ratelimit.NewInMemoryLimiter(cfg.Media.RatePerSecond, time.Second, cfg.Media.RateBurst),
		Retry:           retry.DefaultConfig(),
		PrefetchTimeout: cfg.Viewer.MediaTimeout,
		Logger:          opts.Logger.WithComponent("Media"),
	})
	if err != nil {
		return nil, err
	}

	opts.LC.Append(fx.Hook{
		OnStop: func(context.Context) error {
			m.Close()
			return nil
		},
	})
	return m, nil
}

func newMedia(s settings) (*MediaImpl, error) {
	if s.CacheSize <= 0 {
		s.CacheSize = 1
	}
	if s.Workers <= 0 {
		s.Workers = 1
	}
	if s.Client == nil {
		s.Client = http.DefaultClient
	}

	cache, err := lru.New[string, media.Entry](s.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create media cache: %w", err)
	}

	pool, err := ants.NewPool(s.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create prefetch pool: %w", err)
	}

	return &MediaImpl{
		client:          s.Client,
		cache:           cache,
		limiter:         s.Limiter,
		pool:            pool,
		logger:          s.Logger,
		retry:           s.Retry,
		prefetchTimeout: s.PrefetchTimeout,
	}, nil
}

// Cached returns media fetched earlier, if it is still in the cache.
func (m *MediaImpl) Cached(url string) (media.Entry, bool) {
	return m.cache.Get(url)
}

func (m *MediaImpl) Close() {
	m.pool.Release()
}
