package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/university-hub/university/internal/domain/shared"
	"github.com/university-hub/university/internal/domain/student"
)

var studentColumns = []string{"student_id", "group_id", "first_name", "last_name"}

func TestStudentRepository_Save(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	groupID := 2
	mock.ExpectExec(regexp.QuoteMeta(insertStudentQuery)).
		WithArgs(&groupID, "Anna", "Orlova").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s := student.New("Anna", "Orlova", &groupID)
	assert.NoError(t, repo.Save(context.Background(), &s))
}

func TestStudentRepository_SaveWithoutGroup(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(insertStudentQuery)).
		WithArgs((*int)(nil), "Oleg", "Sidorov").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s := student.New("Oleg", "Sidorov", nil)
	assert.NoError(t, repo.Save(context.Background(), &s))
}

func TestStudentRepository_SaveNil(t *testing.T) {
	repo := NewStudentRepository(newMockPool(t))

	err := repo.Save(context.Background(), nil)
	assert.True(t, shared.IsStorage(err))
	assert.ErrorIs(t, err, shared.ErrNilEntity)
}

func TestStudentRepository_FindByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectStudentByIDQuery)).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(studentColumns).AddRow(1, int64(3), "Ivan", "Ivanov"))

	s, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, s.ID)
	require.NotNil(t, s.GroupID)
	assert.Equal(t, 3, *s.GroupID)
	assert.Equal(t, "Ivan", s.FirstName)
	assert.Equal(t, "Ivanov", s.LastName)
	assert.Empty(t, s.Courses)
}

func TestStudentRepository_FindByIDWithoutGroup(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectStudentByIDQuery)).
		WithArgs(4).
		WillReturnRows(pgxmock.NewRows(studentColumns).AddRow(4, nil, "Maria", "Petrova"))

	s, err := repo.FindByID(context.Background(), 4)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.False(t, s.HasGroup())
}

func TestStudentRepository_FindByIDAbsent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectStudentByIDQuery)).
		WithArgs(404).
		WillReturnRows(pgxmock.NewRows(studentColumns))

	s, err := repo.FindByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestStudentRepository_FindAll(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectStudentsQuery)).
		WillReturnRows(pgxmock.NewRows(studentColumns).
			AddRow(1, int64(1), "Ivan", "Ivanov").
			AddRow(2, nil, "Anna", "Orlova"))

	students, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)

	expected := student.New("Ivan", "Ivanov", nil).WithGroup(1)
	expected.ID = 1
	assert.True(t, students[0].Equal(expected))
	assert.False(t, students[1].HasGroup())
}

func TestStudentRepository_FindPage(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectStudentPageQuery)).
		WithArgs(10, 20).
		WillReturnRows(pgxmock.NewRows(studentColumns))

	students, err := repo.FindPage(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentRepository_DeleteByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(deleteStudentQuery)).
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.DeleteByID(context.Background(), 1))
}

func TestStudentRepository_FindAllByCourse(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectStudentsByCourseQuery)).
		WithArgs("Math").
		WillReturnRows(pgxmock.NewRows(studentColumns).
			AddRow(2, int64(1), "Anna", "Orlova").
			AddRow(5, int64(2), "Petr", "Ivanov"))

	students, err := repo.FindAllByCourse(context.Background(), "Math")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 2, students[0].ID)
	assert.Equal(t, 5, students[1].ID)
}

func TestStudentRepository_FindAllByCourseEmptyName(t *testing.T) {
	// No expectations: the repository must not query.
	repo := NewStudentRepository(newMockPool(t))

	students, err := repo.FindAllByCourse(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestStudentRepository_FindAllByCourseUnknown(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectStudentsByCourseQuery)).
		WithArgs("Alchemy").
		WillReturnRows(pgxmock.NewRows(studentColumns))

	students, err := repo.FindAllByCourse(context.Background(), "Alchemy")
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentRepository_DeleteFromCourse(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(deleteStudentFromCourseQuery)).
		WithArgs(1, 3).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.DeleteFromCourse(context.Background(), 1, 3))
}

func TestStudentRepository_InsertStudentToCourses(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO students_to_courses (student_id, course_id) VALUES ($1, $2), ($1, $3), ($1, $4)")).
		WithArgs(7, 1, 2, 3).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))

	s := student.New("Ivan", "Ivanov", nil)
	s.ID = 7
	assert.NoError(t, repo.InsertStudentToCourses(context.Background(), s, []int{1, 2, 3}))
}

func TestStudentRepository_InsertStudentToCoursesDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(insertStudentToCoursesPrefix)).
		WithArgs(7, 1).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	s := student.New("Ivan", "Ivanov", nil)
	s.ID = 7
	err := repo.InsertStudentToCourses(context.Background(), s, []int{1})
	require.Error(t, err)
	assert.True(t, shared.IsStorage(err))
	assert.True(t, IsUniqueViolation(err))
	assert.Contains(t, err.Error(), "already enrolled")
}

func TestStudentRepository_InsertStudentToCoursesNotPersisted(t *testing.T) {
	repo := NewStudentRepository(newMockPool(t))

	err := repo.InsertStudentToCourses(context.Background(), student.New("Ivan", "Ivanov", nil), []int{1})
	assert.True(t, shared.IsStorage(err))
	assert.ErrorIs(t, err, shared.ErrNotPersisted)
}

func TestStudentRepository_InsertStudentToCoursesEmptyList(t *testing.T) {
	repo := NewStudentRepository(newMockPool(t))

	s := student.New("Ivan", "Ivanov", nil)
	s.ID = 7
	assert.NoError(t, repo.InsertStudentToCourses(context.Background(), s, nil))
	assert.NoError(t, repo.InsertStudentToCourses(context.Background(), s, []int{}))
}

func TestEnrollmentQuery(t *testing.T) {
	query, args := enrollmentQuery(3, []int{10, 20})

	assert.Equal(t,
		"INSERT INTO students_to_courses (student_id, course_id) VALUES ($1, $2), ($1, $3)", query)
	assert.Equal(t, []interface{}{3, 10, 20}, args)
}

func TestStudentRepository_NoConnection(t *testing.T) {
	repo := NewStudentRepository(nil)
	ctx := context.Background()

	s := student.New("Ivan", "Ivanov", nil)
	s.ID = 1

	assert.ErrorIs(t, repo.InsertStudentToCourses(ctx, s, []int{1}), shared.ErrNoConnection)
	assert.True(t, shared.IsStorage(repo.DeleteFromCourse(ctx, 1, 1)))

	_, err := repo.FindAllByCourse(ctx, "Math")
	assert.True(t, shared.IsStorage(err))
}
