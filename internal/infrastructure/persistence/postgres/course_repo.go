package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/internal/domain/shared"
)

const (
	insertCourseQuery       = `INSERT INTO courses (course_name, course_description) VALUES ($1, $2)`
	selectCourseByIDQuery   = `SELECT course_id, course_name, course_description FROM courses WHERE course_id = $1`
	selectCourseByNameQuery = `SELECT course_id, course_name, course_description FROM courses WHERE course_name = $1 ORDER BY course_id LIMIT 1`
	selectCoursesQuery      = `SELECT course_id, course_name, course_description FROM courses ORDER BY course_id`
	selectCoursePageQuery   = `SELECT course_id, course_name, course_description FROM courses ORDER BY course_id LIMIT $1 OFFSET $2`
	deleteCourseQuery       = `DELETE FROM courses WHERE course_id = $1`

	selectCoursesByStudentQuery = `SELECT c.course_id, c.course_name, c.course_description FROM courses c ` +
		`JOIN students_to_courses sc ON sc.course_id = c.course_id ` +
		`WHERE sc.student_id = $1 ` +
		`ORDER BY c.course_id`
)

const courseDomain = "course"

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	db Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

var _ course.Repository = (*CourseRepository)(nil)

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Save inserts a new course.
func (r *CourseRepository) Save(ctx context.Context, c *course.Course) error {
	if r.db == nil {
		return noConnection(courseDomain, "Save")
	}
	if c == nil {
		return shared.StorageError(courseDomain, "Save", "failed to save course", shared.ErrNilEntity)
	}

	if _, err := r.db.Exec(ctx, insertCourseQuery, c.Name, c.Description); err != nil {
		return shared.StorageError(courseDomain, "Save",
			fmt.Sprintf("failed to save course %q", c.Name), err)
	}
	return nil
}

// FindByID returns the course with the given id, or nil if there is none.
func (r *CourseRepository) FindByID(ctx context.Context, id int) (*course.Course, error) {
	if r.db == nil {
		return nil, noConnection(courseDomain, "FindByID")
	}

	c, err := scanCourse(r.db.QueryRow(ctx, selectCourseByIDQuery, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, shared.StorageError(courseDomain, "FindByID",
			fmt.Sprintf("failed to find course with id %d", id), err)
	}
	return &c, nil
}

// FindAll returns every course ordered by id.
func (r *CourseRepository) FindAll(ctx context.Context) ([]course.Course, error) {
	if r.db == nil {
		return nil, noConnection(courseDomain, "FindAll")
	}

	courses, err := r.queryCourses(ctx, selectCoursesQuery)
	if err != nil {
		return nil, shared.StorageError(courseDomain, "FindAll", "failed to list courses", err)
	}
	return courses, nil
}

// FindPage returns at most limit courses after skipping offset of them.
func (r *CourseRepository) FindPage(ctx context.Context, limit, offset int) ([]course.Course, error) {
	if r.db == nil {
		return nil, noConnection(courseDomain, "FindPage")
	}
	if err := checkPage(courseDomain, limit, offset); err != nil {
		return nil, err
	}

	courses, err := r.queryCourses(ctx, selectCoursePageQuery, limit, offset)
	if err != nil {
		return nil, shared.StorageError(courseDomain, "FindPage",
			fmt.Sprintf("failed to list courses limit=%d offset=%d", limit, offset), err)
	}
	return courses, nil
}

// DeleteByID removes the course together with its enrollments.
func (r *CourseRepository) DeleteByID(ctx context.Context, id int) error {
	if r.db == nil {
		return noConnection(courseDomain, "DeleteByID")
	}

	if _, err := r.db.Exec(ctx, deleteCourseQuery, id); err != nil {
		return shared.StorageError(courseDomain, "DeleteByID",
			fmt.Sprintf("failed to delete course with id %d", id), err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Query Operations
// ─────────────────────────────────────────────────────────────────────────────

// FindByName returns the course with exactly this name, or nil if absent.
func (r *CourseRepository) FindByName(ctx context.Context, name string) (*course.Course, error) {
	if r.db == nil {
		return nil, noConnection(courseDomain, "FindByName")
	}

	c, err := scanCourse(r.db.QueryRow(ctx, selectCourseByNameQuery, name))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, shared.StorageError(courseDomain, "FindByName",
			fmt.Sprintf("failed to find course %q", name), err)
	}
	return &c, nil
}

// FindAllByStudentID returns the courses the student is enrolled in.
func (r *CourseRepository) FindAllByStudentID(ctx context.Context, studentID int) ([]course.Course, error) {
	if r.db == nil {
		return nil, noConnection(courseDomain, "FindAllByStudentID")
	}

	courses, err := r.queryCourses(ctx, selectCoursesByStudentQuery, studentID)
	if err != nil {
		return nil, shared.StorageError(courseDomain, "FindAllByStudentID",
			fmt.Sprintf("failed to find courses of student with id %d", studentID), err)
	}
	return courses, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper Methods
// ─────────────────────────────────────────────────────────────────────────────

func (r *CourseRepository) queryCourses(ctx context.Context, query string, args ...interface{}) ([]course.Course, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (course.Course, error) {
		return scanCourse(row)
	})
}

func scanCourse(row pgx.Row) (course.Course, error) {
	var c course.Course
	err := row.Scan(&c.ID, &c.Name, &c.Description)
	return c, err
}
