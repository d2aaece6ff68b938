package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/indiereel/backend/pkg/db/models"
)

// PackageDTO is the client shape of a submission package.
type PackageDTO struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Service serves the read-only catalog endpoints.
type Service interface {
	ListPackages(ctx context.Context) ([]PackageDTO, error)
	ListRoles(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPackages(ctx context.Context) ([]PackageDTO, error) {
	pkgs, err := s.repo.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PackageDTO, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, MapPackage(p))
	}
	return out, nil
}

func (s *service) ListRoles(ctx context.Context) ([]string, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.Name)
	}
	return out, nil
}

func MapPackage(p models.Package) PackageDTO {
	return PackageDTO{
		Name:        DisplayName(p.Name),
		Amount:      p.Amount,
		Description: p.Description,
	}
}
