package shared

import "context"

// CrudRepository is the storage contract every entity repository fulfils.
//
// Identifiers are assigned by storage. Save does not report the new identifier;
// callers that need it re-query. FindByID returns (nil, nil) when no row matches.
// All failures are *DomainError values of kind ErrStorage.
type CrudRepository[E any] interface {
	// Save inserts a new row for the entity.
	Save(ctx context.Context, entity *E) error

	// FindByID returns the entity with the given identifier, or nil if absent.
	FindByID(ctx context.Context, id int) (*E, error)

	// FindAll returns every row ordered by identifier.
	// The result is empty, not nil, when the table is empty.
	FindAll(ctx context.Context) ([]E, error)

	// FindPage returns at most limit rows ordered by identifier, skipping offset rows.
	FindPage(ctx context.Context, limit, offset int) ([]E, error)

	// DeleteByID removes the row with the given identifier.
	// Deleting an identifier that does not exist is not an error.
	DeleteByID(ctx context.Context, id int) error
}
