package migrate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/indiereel/backend/pkg/config"
	"github.com/indiereel/backend/pkg/db"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/logger"
)

// DefaultRoles mirrors the crew roles seeded by the catalog migration.
var DefaultRoles = []string{
	"Director",
	"Producer",
	"Writer",
	"Actor",
	"Cinematographer",
	"Editor",
	"Music Director",
	"Sound Designer",
	"Art Director",
}

// DefaultPackages mirrors the submission packages seeded by the catalog migration.
var DefaultPackages = []models.Package{
	{Name: "basic", Amount: decimal.NewFromInt(499), Description: "Single contest entry"},
	{Name: "standard", Amount: decimal.NewFromInt(999), Description: "Contest entry with jury feedback"},
	{Name: "premium", Amount: decimal.NewFromInt(1999), Description: "Contest entry, jury feedback and featured listing"},
}

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. SQLite databases are built from the GORM models since the
// goose migrations target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if client.IsSQLite() {
		ctx = logg.WithField(ctx, "env", cfg.App.Env)
		logg.Info(ctx, "building sqlite schema from models (dev auto-run)")
		if err := AutoMigrateModels(ctx, client.DB()); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite schema ready")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "running embedded goose migrations (dev auto-run)")

	applied, err := Up(ctx, sqlDB, "")
	if err != nil {
		return err
	}

	logg.Info(logg.WithField(ctx, "applied", len(applied)), "goose migrations completed")
	return nil
}

// AutoMigrateModels creates every table from the GORM models and seeds the catalog.
func AutoMigrateModels(ctx context.Context, conn *gorm.DB) error {
	conn = conn.WithContext(ctx)
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return SeedCatalog(conn)
}

// SeedCatalog inserts the default roles and packages when missing.
func SeedCatalog(conn *gorm.DB) error {
	for _, name := range DefaultRoles {
		role := models.Role{Name: name}
		if err := conn.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	for _, pkg := range DefaultPackages {
		row := pkg
		if err := conn.Where("name = ?", pkg.Name).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed package %s: %w", pkg.Name, err)
		}
	}
	return nil
}
