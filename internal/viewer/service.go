package viewer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/insta-stories-viewer/internal/catalog"
	"github.com/orgball2608/insta-stories-viewer/internal/media"
	"github.com/orgball2608/insta-stories-viewer/pkg/config"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
	"go.uber.org/fx"
)

// Settings tune the playback of every session.
type Settings struct {
	Tick            time.Duration
	Debounce        time.Duration
	DefaultDuration time.Duration
	MediaTimeout    time.Duration
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Tick:            cfg.Viewer.Tick,
		Debounce:        cfg.Viewer.Debounce,
		DefaultDuration: cfg.Viewer.DefaultDuration,
		MediaTimeout:    cfg.Viewer.MediaTimeout,
	}
}

type Opts struct {
	fx.In

	Catalog    catalog.Catalog
	Store      *Store
	Loader     media.Loader
	Prefetcher media.Prefetcher
	Config     *config.Config
	Logger     logger.Logger
	Clock      clockwork.Clock `optional:"true"`
	LC         fx.Lifecycle    `optional:"true"`
}

// Service opens viewing sessions over the current catalog and serves the
// list view.
type Service struct {
	catalog    catalog.Catalog
	store      *Store
	loader     media.Loader
	prefetcher media.Prefetcher
	settings   Settings
	clock      clockwork.Clock
	logger     logger.Logger

	active atomic.Int64

	mu       sync.Mutex
	sessions map[string]*Session
	shut     bool
}

func NewService(opts Opts) *Service {
	v := &Service{
		catalog:    opts.Catalog,
		store:      opts.Store,
		loader:     opts.Loader,
		prefetcher: opts.Prefetcher,
		settings:   SettingsFromConfig(opts.Config),
		clock:      opts.Clock,
		logger:     opts.Logger.WithComponent("Viewer"),
		sessions:   make(map[string]*Session),
	}

	// Hijacked websocket connections outlive http.Server.Shutdown, so live
	// sessions are stopped here.
	if opts.LC != nil {
		opts.LC.Append(fx.Hook{
			OnStop: func(context.Context) error {
				v.Shutdown()
				return nil
			},
		})
	}
	return v
}

// List returns the list-view rows, or the catalog error when nothing has
// been loaded.
func (v *Service) List() ([]Row, error) {
	users, err := v.catalog.Users()
	if err != nil {
		return nil, err
	}
	return v.store.List(users), nil
}

// Open starts a session at userIndex of the current catalog. The caller owns
// the returned session and must Stop it.
func (v *Service) Open(userIndex int) (*Session, error) {
	users, err := v.catalog.Users()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := NewSession(SessionOpts{
		ID:         id,
		Users:      users,
		Store:      v.store,
		Loader:     v.loader,
		Prefetcher: v.prefetcher,
		Logger:     v.logger,
		Settings:   v.settings,
		Clock:      v.clock,
	})
	if err := s.Open(userIndex); err != nil {
		s.Stop()
		return nil, err
	}

	v.mu.Lock()
	if v.shut {
		v.mu.Unlock()
		s.Stop()
		return nil, ErrSessionClosed
	}
	v.sessions[id] = s
	v.mu.Unlock()

	v.active.Add(1)
	go func() {
		<-s.Done()
		v.mu.Lock()
		delete(v.sessions, id)
		v.mu.Unlock()
		v.active.Add(-1)
	}()
	v.logger.Info("Viewer session opened", "session", id, "user_index", userIndex, "users", len(users))
	return s, nil
}

// Active counts sessions whose loop is still running.
func (v *Service) Active() int64 {
	return v.active.Load()
}

// Shutdown stops every live session and refuses new ones.
func (v *Service) Shutdown() {
	v.mu.Lock()
	v.shut = true
	live := make([]*Session, 0, len(v.sessions))
	for _, s := range v.sessions {
		live = append(live, s)
	}
	v.mu.Unlock()

	for _, s := range live {
		s.Stop()
	}
	if len(live) > 0 {
		v.logger.Info("Viewer sessions stopped", "count", len(live))
	}
}
