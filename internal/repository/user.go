package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/circle360/api/internal/database"
	"github.com/circle360/api/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. The unique index on email rejects duplicates,
// surfaced as database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		CREATE user CONTENT {
			nickname: $nickname,
			email: $email,
			profilePictureURL: $profilePictureURL,
			location: { lat: $lat, lng: $lng },
			enableNotifications: $enableNotifications,
			incognito: $incognito,
			updateFrequency: $updateFrequency,
			radius: $radius,
			myGroups: $myGroups,
			createdOn: time::now(),
			updatedOn: time::now()
		}
	`

	vars := map[string]interface{}{
		"nickname":            user.Nickname,
		"email":               user.Email,
		"profilePictureURL":   user.ProfilePictureURL,
		"lat":                 user.Location.Lat,
		"lng":                 user.Location.Lng,
		"enableNotifications": user.EnableNotifications,
		"incognito":           user.Incognito,
		"updateFrequency":     user.UpdateFrequency,
		"radius":              user.Radius,
		"myGroups":            refsVars(user.MyGroups),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email must be unique", database.ErrDuplicate)
		}
		return err
	}

	records := unwrapRecords(results)
	if len(records) == 0 {
		return fmt.Errorf("%w: create returned no record", database.ErrQuery)
	}

	created, err := decodeRecord[model.User](records[0])
	if err != nil {
		return err
	}

	*user = *created
	return nil
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

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
	return decodeRecord[model.User](data)
}

// GetManyByEmail retrieves the contact projection for a set of emails.
func (r *UserRepository) GetManyByEmail(ctx context.Context, emails []string) ([]*model.User, error) {
	query := `
		SELECT email, nickname, profilePictureURL, location, incognito
		FROM user WHERE email IN $emails
	`
	vars := map[string]interface{}{"emails": emails}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return decodeUsers(unwrapRecords(results))
}

// List returns up to limit users in storage order.
func (r *UserRepository) List(ctx context.Context, limit int) ([]*model.User, error) {
	query := `SELECT * FROM user LIMIT $limit`
	vars := map[string]interface{}{"limit": limit}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return decodeUsers(unwrapRecords(results))
}

// Update writes only the given fields, leaving everything else untouched.
// Field names are the fixed document field names chosen by the service
// layer, never raw client input. Returns (nil, nil) when the email is absent.
func (r *UserRepository) Update(ctx context.Context, email string, fields map[string]interface{}) (*model.User, error) {
	if len(fields) == 0 {
		return r.GetByEmail(ctx, email)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	set := make([]string, 0, len(names)+1)
	vars := map[string]interface{}{"email": email}
	for _, name := range names {
		set = append(set, fmt.Sprintf("%s = $%s", name, name))
		vars[name] = fields[name]
	}
	set = append(set, "updatedOn = time::now()")

	query := fmt.Sprintf(
		`UPDATE user SET %s WHERE email = $email RETURN AFTER`,
		strings.Join(set, ", "),
	)

	return r.mutateOne(ctx, query, vars)
}

// Delete removes a user by email. Returns database.ErrNotFound when absent.
func (r *UserRepository) Delete(ctx context.Context, email string) error {
	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing == nil {
		return database.ErrNotFound
	}

	query := `DELETE user WHERE email = $email`
	return r.db.Execute(ctx, query, map[string]interface{}{"email": email})
}

// AppendGroupRef appends a myGroups entry. This is a plain push; the
// uniqueness check happens in the service's read step beforehand.
func (r *UserRepository) AppendGroupRef(ctx context.Context, email string, ref model.GroupRef) (*model.User, error) {
	query := `
		UPDATE user
		SET myGroups += [$ref], updatedOn = time::now()
		WHERE email = $email
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"email": email,
		"ref":   refVars(ref),
	}
	return r.mutateOne(ctx, query, vars)
}

// SetGroupRefs replaces the whole myGroups array. Used for in-place entry
// replacement so the sequence order is preserved.
func (r *UserRepository) SetGroupRefs(ctx context.Context, email string, refs []model.GroupRef) (*model.User, error) {
	query := `
		UPDATE user
		SET myGroups = $refs, updatedOn = time::now()
		WHERE email = $email
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"email": email,
		"refs":  refsVars(refs),
	}
	return r.mutateOne(ctx, query, vars)
}

// RemoveGroupRef removes the myGroups entry with the given groupID.
func (r *UserRepository) RemoveGroupRef(ctx context.Context, email, groupID string) (*model.User, error) {
	query := `
		UPDATE user
		SET myGroups = myGroups[WHERE groupID != $groupID], updatedOn = time::now()
		WHERE email = $email
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"email":   email,
		"groupID": groupID,
	}
	return r.mutateOne(ctx, query, vars)
}

// mutateOne runs an UPDATE ... RETURN AFTER and decodes the updated user.
// Returns (nil, nil) when no record matched.
func (r *UserRepository) mutateOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := unwrapRecords(results)
	if len(records) == 0 {
		return nil, nil
	}
	return decodeRecord[model.User](records[0])
}

func decodeUsers(records []map[string]interface{}) ([]*model.User, error) {
	users := make([]*model.User, 0, len(records))
	for _, data := range records {
		user, err := decodeRecord[model.User](data)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
