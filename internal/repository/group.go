package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/circle360/api/internal/database"
	"github.com/circle360/api/internal/model"
)

// Groups live in the "circle" table; GROUP is a SurrealQL keyword.

// GroupRepository handles group data access
type GroupRepository struct {
	db database.Database
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db database.Database) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create creates a new group with the code and roster already set by the
// service. A group-code collision trips the unique index and comes back as
// database.ErrDuplicate so the caller can regenerate and retry.
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	query := `
		CREATE circle CONTENT {
			groupCode: $groupCode,
			public: $public,
			members: $members
		}
	`

	vars := map[string]interface{}{
		"groupCode": group.GroupCode,
		"public":    group.Public,
		"members":   membersVars(group.Members),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: groupCode must be unique", database.ErrDuplicate)
		}
		return err
	}

	records := unwrapRecords(results)
	if len(records) == 0 {
		return fmt.Errorf("%w: create returned no record", database.ErrQuery)
	}

	created, err := decodeRecord[model.Group](records[0])
	if err != nil {
		return err
	}

	*group = *created
	return nil
}

// GetByCode retrieves a group by its code. Returns (nil, nil) when absent.
func (r *GroupRepository) GetByCode(ctx context.Context, code string) (*model.Group, error) {
	query := `SELECT * FROM circle WHERE groupCode = $code LIMIT 1`
	vars := map[string]interface{}{"code": code}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeRecord[model.Group](data)
}

// List returns up to limit groups in storage order.
func (r *GroupRepository) List(ctx context.Context, limit int) ([]*model.Group, error) {
	query := `SELECT * FROM circle LIMIT $limit`
	vars := map[string]interface{}{"limit": limit}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := unwrapRecords(results)
	groups := make([]*model.Group, 0, len(records))
	for _, data := range records {
		group, err := decodeRecord[model.Group](data)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// SetPublic replaces the visibility flag. Returns (nil, nil) when absent.
func (r *GroupRepository) SetPublic(ctx context.Context, code string, public bool) (*model.Group, error) {
	query := `
		UPDATE circle SET public = $public
		WHERE groupCode = $code
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"code":   code,
		"public": public,
	}
	return r.mutateOne(ctx, query, vars)
}

// Delete removes a group by code. Returns database.ErrNotFound when absent.
// No cascade: myGroups entries pointing at the deleted group go stale.
func (r *GroupRepository) Delete(ctx context.Context, code string) error {
	existing, err := r.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing == nil {
		return database.ErrNotFound
	}

	query := `DELETE circle WHERE groupCode = $code`
	return r.db.Execute(ctx, query, map[string]interface{}{"code": code})
}

// AddMember set-inserts a roster entry: array::union suppresses an entry
// identical to one already present, so a lost race between two adds of the
// same record cannot produce a duplicate.
func (r *GroupRepository) AddMember(ctx context.Context, code string, member model.Member) (*model.Group, error) {
	query := `
		UPDATE circle
		SET members = array::union(members, [$member])
		WHERE groupCode = $code
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"code":   code,
		"member": memberVars(member),
	}
	return r.mutateOne(ctx, query, vars)
}

// SetMembers replaces the whole roster. Used for in-place member
// replacement so roster order is preserved.
func (r *GroupRepository) SetMembers(ctx context.Context, code string, members []model.Member) (*model.Group, error) {
	query := `
		UPDATE circle
		SET members = $members
		WHERE groupCode = $code
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"code":    code,
		"members": membersVars(members),
	}
	return r.mutateOne(ctx, query, vars)
}

// RemoveMember removes the roster entry with the given email.
func (r *GroupRepository) RemoveMember(ctx context.Context, code, email string) (*model.Group, error) {
	query := `
		UPDATE circle
		SET members = members[WHERE email != $email]
		WHERE groupCode = $code
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"code":  code,
		"email": email,
	}
	return r.mutateOne(ctx, query, vars)
}

// mutateOne runs an UPDATE ... RETURN AFTER and decodes the updated group.
// Returns (nil, nil) when no record matched.
func (r *GroupRepository) mutateOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Group, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := unwrapRecords(results)
	if len(records) == 0 {
		return nil, nil
	}
	return decodeRecord[model.Group](records[0])
}
