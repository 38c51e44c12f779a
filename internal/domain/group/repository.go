package group

import (
	"context"

	"github.com/university-hub/university/internal/domain/shared"
)

// Repository is the storage contract for groups.
type Repository interface {
	shared.CrudRepository[Group]

	// FindAllBySizeEqualsOrLess returns groups whose student count is at most maxSize.
	// Groups without students never qualify. The order is the order in which the
	// size computation produces the qualifying groups.
	FindAllBySizeEqualsOrLess(ctx context.Context, maxSize int) ([]Group, error)
}
