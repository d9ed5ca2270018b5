package app

import (
	"context"

	"github.com/orgball2608/insta-stories-viewer/internal/catalog"
	"github.com/orgball2608/insta-stories-viewer/internal/catalog/catalogimpl"
	"github.com/orgball2608/insta-stories-viewer/internal/media"
	"github.com/orgball2608/insta-stories-viewer/internal/media/mediaimpl"
	"github.com/orgball2608/insta-stories-viewer/internal/migrations"
	repositories "github.com/orgball2608/insta-stories-viewer/internal/repositories/fx"
	"github.com/orgball2608/insta-stories-viewer/internal/transport/httpserver"
	"github.com/orgball2608/insta-stories-viewer/internal/viewer"
	"github.com/orgball2608/insta-stories-viewer/pkg/config"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
	"github.com/orgball2608/insta-stories-viewer/pkg/pgx"
	"go.uber.org/fx"
)

// New assembles the application. Postgres is only wired when the catalog is
// read from it.
func New() fx.Option {
	cfg, err := config.New()
	if err != nil {
		return fx.Error(err)
	}

	options := []fx.Option{
		fx.Provide(
			config.New,
			logger.FxOption,
		),
		fx.Provide(
			mediaimpl.New,
			func(m *mediaimpl.MediaImpl) media.Loader { return m },
			func(m *mediaimpl.MediaImpl) media.Prefetcher { return m },
			func(m *mediaimpl.MediaImpl) media.Cache { return m },
			catalogimpl.NewSource,
			fx.Annotate(
				catalogimpl.New,
				fx.As(new(catalog.Catalog)),
			),
			viewer.NewStore,
			viewer.NewService,
			httpserver.New,
		),
	}

	if cfg.Catalog.Source == config.SourcePostgres {
		options = append(options,
			fx.Provide(pgx.New),
			repositories.Module,
			fx.Invoke(migrate),
		)
	}

	options = append(options, fx.Invoke(run))
	return fx.Options(options...)
}

func migrate(lc fx.Lifecycle, log logger.Logger, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := migrations.Up(ctx, cfg.GetDSN()); err != nil {
				return err
			}
			log.Info("Database migrations applied")
			return nil
		},
	})
}

// run loads the catalog once and keeps it fresh. A failed first load is not
// fatal: the list endpoint answers 503 until a refresh succeeds.
func run(lc fx.Lifecycle, log logger.Logger, cat catalog.Catalog, _ *httpserver.Server) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := cat.Refresh(ctx); err != nil {
				log.Error("Initial catalog load failed", "error", err)
			}
			return cat.Schedule(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
