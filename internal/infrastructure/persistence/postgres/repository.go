package postgres

import (
	"fmt"

	"github.com/university-hub/university/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHARED REPOSITORY HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// noConnection is returned by every repository operation when the repository
// was built without a database handle.
func noConnection(domain, op string) error {
	return shared.StorageError(domain, op, "no database connection", shared.ErrNoConnection)
}

// checkPage rejects windows that the backend would refuse anyway.
func checkPage(domain string, limit, offset int) error {
	if limit < 0 || offset < 0 {
		return shared.InvalidArgument(domain, "FindPage",
			fmt.Sprintf("invalid page window limit=%d offset=%d", limit, offset))
	}
	return nil
}
