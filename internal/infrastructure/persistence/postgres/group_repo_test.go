package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/university-hub/university/internal/domain/group"
	"github.com/university-hub/university/internal/domain/shared"
)

var groupColumns = []string{"group_id", "group_name"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestGroupRepository_Save(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(insertGroupQuery)).
		WithArgs("AB-22").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	g := group.New("AB-22")
	require.NoError(t, repo.Save(context.Background(), &g))
	assert.Zero(t, g.ID, "the generated id is not written back")
}

func TestGroupRepository_SaveNil(t *testing.T) {
	repo := NewGroupRepository(newMockPool(t))

	err := repo.Save(context.Background(), nil)
	assert.True(t, shared.IsStorage(err))
	assert.ErrorIs(t, err, shared.ErrNilEntity)
}

func TestGroupRepository_SaveBackendError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(insertGroupQuery)).
		WithArgs("bad").
		WillReturnError(errors.New("check constraint violated"))

	g := group.New("bad")
	err := repo.Save(context.Background(), &g)
	require.Error(t, err)
	assert.True(t, shared.IsStorage(err))
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestGroupRepository_FindByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectGroupByIDQuery)).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(groupColumns).AddRow(1, "AB-22"))

	g, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, group.Group{ID: 1, Name: "AB-22"}, *g)
}

func TestGroupRepository_FindByIDAbsent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectGroupByIDQuery)).
		WithArgs(42).
		WillReturnRows(pgxmock.NewRows(groupColumns))

	g, err := repo.FindByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, g)
}

func TestGroupRepository_FindByIDBackendError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectGroupByIDQuery)).
		WithArgs(3).
		WillReturnError(errors.New("connection reset"))

	g, err := repo.FindByID(context.Background(), 3)
	assert.Nil(t, g)
	assert.True(t, shared.IsStorage(err))
	assert.Contains(t, err.Error(), "id 3")
}

func TestGroupRepository_FindAll(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectGroupsQuery)).
		WillReturnRows(pgxmock.NewRows(groupColumns).
			AddRow(1, "AB-22").
			AddRow(2, "CD-33"))

	groups, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []group.Group{{ID: 1, Name: "AB-22"}, {ID: 2, Name: "CD-33"}}, groups)
}

func TestGroupRepository_FindAllEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectGroupsQuery)).
		WillReturnRows(pgxmock.NewRows(groupColumns))

	groups, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupRepository_FindPage(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectGroupPageQuery)).
		WithArgs(1, 1).
		WillReturnRows(pgxmock.NewRows(groupColumns).AddRow(2, "CD-33"))

	groups, err := repo.FindPage(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []group.Group{{ID: 2, Name: "CD-33"}}, groups)
}

func TestGroupRepository_FindPageInvalidWindow(t *testing.T) {
	repo := NewGroupRepository(newMockPool(t))

	_, err := repo.FindPage(context.Background(), -1, 0)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestGroupRepository_DeleteByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(deleteGroupQuery)).
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.DeleteByID(context.Background(), 99))
}

func TestGroupRepository_FindAllBySizeEqualsOrLess(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectGroupsBySizeQuery)).
		WithArgs(15).
		WillReturnRows(pgxmock.NewRows(groupColumns).
			AddRow(1, "AB-22").
			AddRow(3, "EF-44"))

	groups, err := repo.FindAllBySizeEqualsOrLess(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, []group.Group{{ID: 1, Name: "AB-22"}, {ID: 3, Name: "EF-44"}}, groups)
}

func TestGroupRepository_FindAllBySizeEqualsOrLessBackendError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(selectGroupsBySizeQuery)).
		WithArgs(15).
		WillReturnError(ErrConnectionClosed)

	_, err := repo.FindAllBySizeEqualsOrLess(context.Background(), 15)
	assert.True(t, shared.IsStorage(err))
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestGroupRepository_NoConnection(t *testing.T) {
	repo := NewGroupRepository(nil)
	ctx := context.Background()

	g := group.New("AB-22")
	assert.ErrorIs(t, repo.Save(ctx, &g), shared.ErrNoConnection)

	_, err := repo.FindByID(ctx, 1)
	assert.True(t, shared.IsStorage(err))

	_, err = repo.FindAll(ctx)
	assert.True(t, shared.IsStorage(err))

	_, err = repo.FindPage(ctx, 10, 0)
	assert.True(t, shared.IsStorage(err))

	_, err = repo.FindAllBySizeEqualsOrLess(ctx, 10)
	assert.True(t, shared.IsStorage(err))

	assert.True(t, shared.IsStorage(repo.DeleteByID(ctx, 1)))
}
