package catalogimpl

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
)

// Schedule refreshes the catalog every configured interval until ctx is done.
// A zero interval disables refreshing.
func (c *CatalogImpl) Schedule(ctx context.Context) error {
	if c.refresh <= 0 {
		c.logger.Info("Catalog refresh disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create catalog scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(c.refresh),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			c.logger.Debug("Running scheduled catalog refresh")
			// Refresh already logs failures and keeps the previous collection.
			_ = c.Refresh(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule catalog refresh: %w", err)
	}

	scheduler.Start()
	c.logger.Info("Catalog refresh scheduled", "interval", c.refresh.String())

	go func() {
		<-ctx.Done()
		c.logger.Info("Stopping catalog scheduler")
		if err := scheduler.Shutdown(); err != nil {
			c.logger.Error("Failed to shut down catalog scheduler", "error", err)
		}
	}()

	return nil
}
