package logger

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/orgball2608/insta-stories-viewer/pkg/config"
	"go.uber.org/fx"
)

var FxOption = fx.Annotate(
	func(lc fx.Lifecycle, cfg *config.Config) *Impl {
		log := New(
			Opts{
				Env:       cfg.App.Env,
				SentryUrl: cfg.App.SentryUrl,
			},
		)
		if cfg.App.SentryUrl != "" {
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					sentry.Flush(2 * time.Second)
					return nil
				},
			})
		}
		return log
	},
	fx.As(new(Logger)),
)
