package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/packfinderz-loyalty/pkg/config"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/db"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
)

// MaybeRunDev applies pending migrations on boot. It only acts in dev with
// PACKFINDERZ_AUTO_MIGRATE enabled; other environments run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	return applyPending(ctx, logg, client, DefaultDir)
}

func applyPending(ctx context.Context, logg *logger.Logger, client *db.Client, dir string) error {
	dialect, err := Dialect(client.Driver())
	if err != nil {
		return err
	}
	pool, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"dir": dir, "dialect": dialect})
	if err := Run(ctx, pool, dialect, dir, "up"); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logg.Info(ctx, "schema up to date")
	return nil
}
