package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/indiereel/backend/internal/repo"
	"github.com/indiereel/backend/pkg/db/models"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
)

const msgLanguageRequired = "language is required"

// Repository resolves the shared lookup tables: genres, languages, roles and packages.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetOrCreateGenres(ctx context.Context, names []string) ([]models.Genre, error)
	GetOrCreateLanguage(ctx context.Context, name string) (*models.Language, error)
	FindRolesByNames(ctx context.Context, names []string) ([]models.Role, error)
	FindPackageByName(ctx context.Context, name string) (*models.Package, error)
	ListPackages(ctx context.Context) ([]models.Package, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Bind(tx)}
}

var onConflictName = clause.OnConflict{
	Columns:   []clause.Column{{Name: "name"}},
	DoNothing: true,
}

// GetOrCreateGenres returns one row per distinct normalized name, in input order.
func (r *repository) GetOrCreateGenres(ctx context.Context, names []string) ([]models.Genre, error) {
	keys := uniqueNormalized(names)
	if len(keys) == 0 {
		return []models.Genre{}, nil
	}
	rows := make([]models.Genre, 0, len(keys))
	for _, name := range keys {
		rows = append(rows, models.Genre{Name: name})
	}
	if err := r.DB(ctx).Clauses(onConflictName).Create(&rows).Error; err != nil {
		return nil, err
	}

	var stored []models.Genre
	if err := r.DB(ctx).Where("name IN ?", keys).Find(&stored).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]models.Genre, len(stored))
	for _, g := range stored {
		byName[g.Name] = g
	}
	out := make([]models.Genre, 0, len(keys))
	for _, name := range keys {
		if g, ok := byName[name]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *repository) GetOrCreateLanguage(ctx context.Context, name string) (*models.Language, error) {
	key := NormalizeName(name)
	if key == "" {
		return nil, pkgerrors.Validation(msgLanguageRequired)
	}
	if err := r.DB(ctx).Clauses(onConflictName).Create(&models.Language{Name: key}).Error; err != nil {
		return nil, err
	}
	var lang models.Language
	if err := r.DB(ctx).Where("name = ?", key).First(&lang).Error; err != nil {
		return nil, err
	}
	return &lang, nil
}

// FindRolesByNames matches role names case-insensitively; unknown names are skipped.
func (r *repository) FindRolesByNames(ctx context.Context, names []string) ([]models.Role, error) {
	keys := uniqueNormalized(names)
	if len(keys) == 0 {
		return []models.Role{}, nil
	}
	var roles []models.Role
	if err := r.DB(ctx).Where("LOWER(name) IN ?", keys).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *repository) FindPackageByName(ctx context.Context, name string) (*models.Package, error) {
	var pkg models.Package
	if err := r.DB(ctx).Where("LOWER(name) = ?", NormalizeName(name)).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) ListPackages(ctx context.Context) ([]models.Package, error) {
	var pkgs []models.Package
	if err := r.DB(ctx).Order("amount ASC").Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *repository) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.DB(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
