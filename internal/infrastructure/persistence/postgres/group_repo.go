package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/university-hub/university/internal/domain/group"
	"github.com/university-hub/university/internal/domain/shared"
)

const (
	insertGroupQuery     = `INSERT INTO groups (group_name) VALUES ($1)`
	selectGroupByIDQuery = `SELECT group_id, group_name FROM groups WHERE group_id = $1`
	selectGroupsQuery    = `SELECT group_id, group_name FROM groups ORDER BY group_id`
	selectGroupPageQuery = `SELECT group_id, group_name FROM groups ORDER BY group_id LIMIT $1 OFFSET $2`
	deleteGroupQuery     = `DELETE FROM groups WHERE group_id = $1`

	// Groups without students drop out of the inner join, so they never qualify.
	selectGroupsBySizeQuery = `SELECT g.group_id, g.group_name FROM groups g ` +
		`JOIN students s ON s.group_id = g.group_id ` +
		`GROUP BY g.group_id, g.group_name ` +
		`HAVING COUNT(s.student_id) <= $1 ` +
		`ORDER BY g.group_id`
)

const groupDomain = "group"

// ══════════════════════════════════════════════════════════════════════════════
// GROUP REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository implements group.Repository for PostgreSQL.
type GroupRepository struct {
	db Querier
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db Querier) *GroupRepository {
	return &GroupRepository{db: db}
}

var _ group.Repository = (*GroupRepository)(nil)

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Save inserts a new group. The storage-assigned id is not written back.
func (r *GroupRepository) Save(ctx context.Context, g *group.Group) error {
	if r.db == nil {
		return noConnection(groupDomain, "Save")
	}
	if g == nil {
		return shared.StorageError(groupDomain, "Save", "failed to save group", shared.ErrNilEntity)
	}

	if _, err := r.db.Exec(ctx, insertGroupQuery, g.Name); err != nil {
		return shared.StorageError(groupDomain, "Save",
			fmt.Sprintf("failed to save group %q", g.Name), err)
	}
	return nil
}

// FindByID returns the group with the given id, or nil if there is none.
func (r *GroupRepository) FindByID(ctx context.Context, id int) (*group.Group, error) {
	if r.db == nil {
		return nil, noConnection(groupDomain, "FindByID")
	}

	g, err := scanGroup(r.db.QueryRow(ctx, selectGroupByIDQuery, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, shared.StorageError(groupDomain, "FindByID",
			fmt.Sprintf("failed to find group with id %d", id), err)
	}
	return &g, nil
}

// FindAll returns every group ordered by id.
func (r *GroupRepository) FindAll(ctx context.Context) ([]group.Group, error) {
	if r.db == nil {
		return nil, noConnection(groupDomain, "FindAll")
	}

	groups, err := r.queryGroups(ctx, selectGroupsQuery)
	if err != nil {
		return nil, shared.StorageError(groupDomain, "FindAll", "failed to list groups", err)
	}
	return groups, nil
}

// FindPage returns at most limit groups after skipping offset of them.
func (r *GroupRepository) FindPage(ctx context.Context, limit, offset int) ([]group.Group, error) {
	if r.db == nil {
		return nil, noConnection(groupDomain, "FindPage")
	}
	if err := checkPage(groupDomain, limit, offset); err != nil {
		return nil, err
	}

	groups, err := r.queryGroups(ctx, selectGroupPageQuery, limit, offset)
	if err != nil {
		return nil, shared.StorageError(groupDomain, "FindPage",
			fmt.Sprintf("failed to list groups limit=%d offset=%d", limit, offset), err)
	}
	return groups, nil
}

// DeleteByID removes the group. Members keep existing without a group.
func (r *GroupRepository) DeleteByID(ctx context.Context, id int) error {
	if r.db == nil {
		return noConnection(groupDomain, "DeleteByID")
	}

	if _, err := r.db.Exec(ctx, deleteGroupQuery, id); err != nil {
		return shared.StorageError(groupDomain, "DeleteByID",
			fmt.Sprintf("failed to delete group with id %d", id), err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Query Operations
// ─────────────────────────────────────────────────────────────────────────────

// FindAllBySizeEqualsOrLess returns the non-empty groups with at most maxSize students.
func (r *GroupRepository) FindAllBySizeEqualsOrLess(ctx context.Context, maxSize int) ([]group.Group, error) {
	if r.db == nil {
		return nil, noConnection(groupDomain, "FindAllBySizeEqualsOrLess")
	}

	groups, err := r.queryGroups(ctx, selectGroupsBySizeQuery, maxSize)
	if err != nil {
		return nil, shared.StorageError(groupDomain, "FindAllBySizeEqualsOrLess",
			fmt.Sprintf("failed to find groups with at most %d students", maxSize), err)
	}
	return groups, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helper Methods
// ─────────────────────────────────────────────────────────────────────────────

func (r *GroupRepository) queryGroups(ctx context.Context, query string, args ...interface{}) ([]group.Group, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (group.Group, error) {
		return scanGroup(row)
	})
}

func scanGroup(row pgx.Row) (group.Group, error) {
	var g group.Group
	err := row.Scan(&g.ID, &g.Name)
	return g, err
}
