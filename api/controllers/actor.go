package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/indiereel/backend/api/middleware"
	"github.com/indiereel/backend/internal/movies"
	"github.com/indiereel/backend/pkg/enums"
	pkgerrors "github.com/indiereel/backend/pkg/errors"
)

// callerID returns the authenticated user id or an unauthorized error.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func callerActor(r *http.Request) (movies.Actor, error) {
	id, err := callerID(r)
	if err != nil {
		return movies.Actor{}, err
	}
	role := enums.UserRole(middleware.RoleFromContext(r.Context()))
	if !role.IsValid() {
		role = enums.UserRoleMember
	}
	return movies.Actor{UserID: id, Role: role}, nil
}

// viewerActor is nil for anonymous requests on public reads.
func viewerActor(r *http.Request) *movies.Actor {
	actor, err := callerActor(r)
	if err != nil {
		return nil
	}
	return &actor
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeDependency, name+" unavailable")
}
