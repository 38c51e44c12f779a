package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/internal/domain/shared"
)

var courseColumns = []string{"course_id", "course_name", "course_description"}

func TestCourseRepository_Save(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(insertCourseQuery)).
		WithArgs("Math", "Room 4").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	c := course.New("Math", "Room 4")
	assert.NoError(t, repo.Save(context.Background(), &c))
}

func TestCourseRepository_SaveNil(t *testing.T) {
	repo := NewCourseRepository(newMockPool(t))

	err := repo.Save(context.Background(), nil)
	assert.True(t, shared.IsStorage(err))
	assert.ErrorIs(t, err, shared.ErrNilEntity)
}

func TestCourseRepository_FindByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCourseByIDQuery)).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(courseColumns).AddRow(1, "Math", "Room 4"))

	c, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, course.Course{ID: 1, Name: "Math", Description: "Room 4"}, *c)
}

func TestCourseRepository_FindByIDAbsent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCourseByIDQuery)).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows(courseColumns))

	c, err := repo.FindByID(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestCourseRepository_FindByName(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCourseByNameQuery)).
		WithArgs("Law").
		WillReturnRows(pgxmock.NewRows(courseColumns).AddRow(2, "Law", "Room 1"))

	c, err := repo.FindByName(context.Background(), "Law")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 2, c.ID)
	assert.Equal(t, "Room 1", c.Description)
}

func TestCourseRepository_FindByNameAbsent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCourseByNameQuery)).
		WithArgs("Alchemy").
		WillReturnRows(pgxmock.NewRows(courseColumns))

	c, err := repo.FindByName(context.Background(), "Alchemy")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestCourseRepository_FindByNameBackendError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCourseByNameQuery)).
		WithArgs("Law").
		WillReturnError(errors.New("timeout"))

	_, err := repo.FindByName(context.Background(), "Law")
	assert.True(t, shared.IsStorage(err))
	assert.Contains(t, err.Error(), `"Law"`)
}

func TestCourseRepository_FindAll(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCoursesQuery)).
		WillReturnRows(pgxmock.NewRows(courseColumns).
			AddRow(1, "Math", "Room 4").
			AddRow(2, "Law", "Room 1"))

	courses, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, course.IDs(courses))
}

func TestCourseRepository_FindPage(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCoursePageQuery)).
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows(courseColumns).
			AddRow(1, "Math", "Room 4").
			AddRow(2, "Law", "Room 1"))

	courses, err := repo.FindPage(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestCourseRepository_DeleteByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(deleteCourseQuery)).
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.DeleteByID(context.Background(), 1))
}

func TestCourseRepository_FindAllByStudentID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCoursesByStudentQuery)).
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows(courseColumns).
			AddRow(1, "Math", "Room 4").
			AddRow(3, "Art", "Studio"))

	courses, err := repo.FindAllByStudentID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, course.IDs(courses))
}

func TestCourseRepository_FindAllByStudentIDNoEnrollments(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCourseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectCoursesByStudentQuery)).
		WithArgs(8).
		WillReturnRows(pgxmock.NewRows(courseColumns))

	courses, err := repo.FindAllByStudentID(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestCourseRepository_NoConnection(t *testing.T) {
	repo := NewCourseRepository(nil)
	ctx := context.Background()

	_, err := repo.FindByName(ctx, "Math")
	assert.ErrorIs(t, err, shared.ErrNoConnection)

	_, err = repo.FindAllByStudentID(ctx, 1)
	assert.True(t, shared.IsStorage(err))
}
