package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/indiereel/backend/pkg/db/models"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
)

// ResolveRoles maps role names onto stored roles, preserving input order and
// collapsing duplicates. Any unknown name fails the whole lookup.
func ResolveRoles(ctx context.Context, r Repository, names []string) ([]models.Role, error) {
	roles, err := r.FindRolesByNames(ctx, names)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load roles")
	}
	byKey := make(map[string]models.Role, len(roles))
	for _, role := range roles {
		byKey[NormalizeName(role.Name)] = role
	}

	out := make([]models.Role, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		key := NormalizeName(raw)
		role, ok := byKey[key]
		if !ok {
			return nil, pkgerrors.Validation(fmt.Sprintf("Unknown role '%s'", strings.TrimSpace(raw)))
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, role)
	}
	return out, nil
}

// SplitDirector separates the Director role from the rest.
func SplitDirector(roles []models.Role) (director *models.Role, others []models.Role) {
	for i := range roles {
		if IsDirector(roles[i].Name) {
			role := roles[i]
			director = &role
			continue
		}
		others = append(others, roles[i])
	}
	return director, others
}
