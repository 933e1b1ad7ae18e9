package storage

import "errors"

var (
	// ErrNotFound is returned when no row or document matches. Drivers
	// translate sql.ErrNoRows and mongo.ErrNoDocuments into it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a unique key (username, email, id) is
	// already taken.
	ErrDuplicate = errors.New("duplicate: entity already exists")
)
