package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/university-hub/university/internal/domain/shared"
	"github.com/university-hub/university/internal/domain/student"
)

const (
	insertStudentQuery     = `INSERT INTO students (group_id, first_name, last_name) VALUES ($1, $2, $3)`
	selectStudentByIDQuery = `SELECT student_id, group_id, first_name, last_name FROM students WHERE student_id = $1`
	selectStudentsQuery    = `SELECT student_id, group_id, first_name, last_name FROM students ORDER BY student_id`
	selectStudentPageQuery = `SELECT student_id, group_id, first_name, last_name FROM students ORDER BY student_id LIMIT $1 OFFSET $2`
	deleteStudentQuery     = `DELETE FROM students WHERE student_id = $1`

	selectStudentsByCourseQuery = `SELECT s.student_id, s.group_id, s.first_name, s.last_name FROM students s ` +
		`JOIN students_to_courses sc ON sc.student_id = s.student_id ` +
		`JOIN courses c ON c.course_id = sc.course_id ` +
		`WHERE c.course_name = $1 ` +
		`ORDER BY s.student_id`

	deleteStudentFromCourseQuery = `DELETE FROM students_to_courses WHERE student_id = $1 AND course_id = $2`

	// Completed with one "($1, $n)" tuple per course by enrollmentQuery.
	insertStudentToCoursesPrefix = `INSERT INTO students_to_courses (student_id, course_id) VALUES `
)

const studentDomain = "student"

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	db Querier
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db Querier) *StudentRepository {
	return &StudentRepository{db: db}
}

var _ student.Repository = (*StudentRepository)(nil)

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Save inserts a new student. A nil GroupID is stored as NULL.
func (r *StudentRepository) Save(ctx context.Context, s *student.Student) error {
	if r.db == nil {
		return noConnection(studentDomain, "Save")
	}
	if s == nil {
		return shared.StorageError(studentDomain, "Save", "failed to save student", shared.ErrNilEntity)
	}

	if _, err := r.db.Exec(ctx, insertStudentQuery, s.GroupID, s.FirstName, s.LastName); err != nil {
		return shared.StorageError(studentDomain, "Save",
			fmt.Sprintf("failed to save student %s %s", s.FirstName, s.LastName), err)
	}
	return nil
}

// FindByID returns the student with the given id, or nil if there is none.
// Courses are not resolved.
func (r *StudentRepository) FindByID(ctx context.Context, id int) (*student.Student, error) {
	if r.db == nil {
		return nil, noConnection(studentDomain, "FindByID")
	}

	s, err := scanStudent(r.db.QueryRow(ctx, selectStudentByIDQuery, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, shared.StorageError(studentDomain, "FindByID",
			fmt.Sprintf("failed to find student with id %d", id), err)
	}
	return &s, nil
}

// FindAll returns every student ordered by id.
func (r *StudentRepository) FindAll(ctx context.Context) ([]student.Student, error) {
	if r.db == nil {
		return nil, noConnection(studentDomain, "FindAll")
	}

	students, err := r.queryStudents(ctx, selectStudentsQuery)
	if err != nil {
		return nil, shared.StorageError(studentDomain, "FindAll", "failed to list students", err)
	}
	return students, nil
}

// FindPage returns at most limit students after skipping offset of them.
func (r *StudentRepository) FindPage(ctx context.Context, limit, offset int) ([]student.Student, error) {
	if r.db == nil {
		return nil, noConnection(studentDomain, "FindPage")
	}
	if err := checkPage(studentDomain, limit, offset); err != nil {
		return nil, err
	}

	students, err := r.queryStudents(ctx, selectStudentPageQuery, limit, offset)
	if err != nil {
		return nil, shared.StorageError(studentDomain, "FindPage",
			fmt.Sprintf("failed to list students limit=%d offset=%d", limit, offset), err)
	}
	return students, nil
}

// DeleteByID removes the student together with their enrollments.
func (r *StudentRepository) DeleteByID(ctx context.Context, id int) error {
	if r.db == nil {
		return noConnection(studentDomain, "DeleteByID")
	}

	if _, err := r.db.Exec(ctx, deleteStudentQuery, id); err != nil {
		return shared.StorageError(studentDomain, "DeleteByID",
			fmt.Sprintf("failed to delete student with id %d", id), err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Enrollment Operations
// ─────────────────────────────────────────────────────────────────────────────

// FindAllByCourse returns the students enrolled in the named course.
// An empty name yields an empty result without touching the database.
func (r *StudentRepository) FindAllByCourse(ctx context.Context, courseName string) ([]student.Student, error) {
	if courseName == "" {
		return []student.Student{}, nil
	}
	if r.db == nil {
		return nil, noConnection(studentDomain, "FindAllByCourse")
	}

	students, err := r.queryStudents(ctx, selectStudentsByCourseQuery, courseName)
	if err != nil {
		return nil, shared.StorageError(studentDomain, "FindAllByCourse",
			fmt.Sprintf("failed to find students of course %q", courseName), err)
	}
	return students, nil
}

// DeleteFromCourse removes one enrollment pair.
func (r *StudentRepository) DeleteFromCourse(ctx context.Context, studentID, courseID int) error {
	if r.db == nil {
		return noConnection(studentDomain, "DeleteFromCourse")
	}

	if _, err := r.db.Exec(ctx, deleteStudentFromCourseQuery, studentID, courseID); err != nil {
		return shared.StorageError(studentDomain, "DeleteFromCourse",
			fmt.Sprintf("failed to remove student with id %d from course with id %d", studentID, courseID), err)
	}
	return nil
}

// InsertStudentToCourses enrolls the student in every listed course with a
// single statement, so either all pairs are written or none is.
func (r *StudentRepository) InsertStudentToCourses(ctx context.Context, s student.Student, courseIDs []int) error {
	if r.db == nil {
		return noConnection(studentDomain, "InsertStudentToCourses")
	}
	if !s.IsPersisted() {
		return shared.StorageError(studentDomain, "InsertStudentToCourses",
			fmt.Sprintf("failed to enroll student %s %s", s.FirstName, s.LastName), shared.ErrNotPersisted)
	}
	if len(courseIDs) == 0 {
		return nil
	}

	query, args := enrollmentQuery(s.ID, courseIDs)
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		msg := fmt.Sprintf("failed to enroll student with id %d in courses %v", s.ID, courseIDs)
		if IsUniqueViolation(err) {
			msg = fmt.Sprintf("student with id %d is already enrolled in one of courses %v", s.ID, courseIDs)
		}
		return shared.StorageError(studentDomain, "InsertStudentToCourses", msg, err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper Methods
// ─────────────────────────────────────────────────────────────────────────────

// enrollmentQuery builds "INSERT ... VALUES ($1, $2), ($1, $3), ..." with the
// student id bound once as $1.
func enrollmentQuery(studentID int, courseIDs []int) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(insertStudentToCoursesPrefix)

	args := make([]interface{}, 0, len(courseIDs)+1)
	args = append(args, studentID)
	for i, courseID := range courseIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($1, $%d)", i+2)
		args = append(args, courseID)
	}
	return sb.String(), args
}

func (r *StudentRepository) queryStudents(ctx context.Context, query string, args ...interface{}) ([]student.Student, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (student.Student, error) {
		return scanStudent(row)
	})
}

func scanStudent(row pgx.Row) (student.Student, error) {
	var (
		s       student.Student
		groupID pgtype.Int4
	)
	if err := row.Scan(&s.ID, &groupID, &s.FirstName, &s.LastName); err != nil {
		return student.Student{}, err
	}
	if groupID.Valid {
		s = s.WithGroup(int(groupID.Int32))
	}
	return s, nil
}
