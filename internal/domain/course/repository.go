package course

import (
	"context"

	"github.com/university-hub/university/internal/domain/shared"
)

// Repository is the storage contract for courses.
type Repository interface {
	shared.CrudRepository[Course]

	// FindByName returns the course with exactly this name, or nil if absent.
	// When several courses share a name the one with the lowest identifier wins.
	FindByName(ctx context.Context, name string) (*Course, error)

	// FindAllByStudentID returns the courses the student is enrolled in.
	FindAllByStudentID(ctx context.Context, studentID int) ([]Course, error)
}
