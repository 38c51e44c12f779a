package student

import (
	"context"

	"github.com/university-hub/university/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// The contract for student storage. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for students and their enrollments.
type Repository interface {
	shared.CrudRepository[Student]

	// FindAllByCourse returns the students enrolled in the named course, ordered
	// by student identifier. An empty or unknown name yields an empty slice.
	FindAllByCourse(ctx context.Context, courseName string) ([]Student, error)

	// DeleteFromCourse removes one enrollment pair.
	// Removing a pair that does not exist is not an error.
	DeleteFromCourse(ctx context.Context, studentID, courseID int) error

	// InsertStudentToCourses enrolls a persisted student in every listed course.
	// Fails with a storage error if any pair already exists; in that case no pair
	// from the call is written.
	InsertStudentToCourses(ctx context.Context, s Student, courseIDs []int) error
}
