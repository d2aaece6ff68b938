package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the primary key is still zero so rows can
// be inserted on databases without gen_random_uuid().
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model, in dependency order, for schema tooling.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Role{},
		&Genre{},
		&Language{},
		&Package{},
		&Contest{},
		&Order{},
		&Movie{},
		&CrewMember{},
		&CrewMemberRequest{},
		&MovieRateReview{},
		&MovieList{},
		&TopCreator{},
		&TopCurator{},
		&OutboxEvent{},
		&OutboxDLQ{},
	}
}
