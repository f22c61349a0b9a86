package service

import (
	"context"
	"errors"
	"strings"

	"github.com/circle360/api/internal/database"
	"github.com/circle360/api/internal/identity"
	"github.com/circle360/api/internal/model"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetManyByEmail(ctx context.Context, emails []string) ([]*model.User, error)
	List(ctx context.Context, limit int) ([]*model.User, error)
	Update(ctx context.Context, email string, fields map[string]interface{}) (*model.User, error)
	Delete(ctx context.Context, email string) error
	AppendGroupRef(ctx context.Context, email string, ref model.GroupRef) (*model.User, error)
	SetGroupRefs(ctx context.Context, email string, refs []model.GroupRef) (*model.User, error)
	RemoveGroupRef(ctx context.Context, email, groupID string) (*model.User, error)
}

// UserService handles user profiles and their myGroups mirror
type UserService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create registers a new user. Everything beyond nickname and email is
// filled with defaults, including a random dicebear avatar.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if strings.TrimSpace(req.Nickname) == "" {
		return nil, ErrInvalidNickname
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user := newUserWithDefaults(strings.TrimSpace(req.Nickname), email)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// Get retrieves a user by email
func (s *UserService) Get(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetMany retrieves the contact projection for a batch of emails. Emails
// with no matching user are silently skipped; the result may be empty.
func (s *UserService) GetMany(ctx context.Context, emails []string) ([]*model.User, error) {
	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		normalized = append(normalized, strings.TrimSpace(strings.ToLower(email)))
	}
	return s.userRepo.GetManyByEmail(ctx, normalized)
}

// List returns up to limit users. An empty DB yields an empty list, not an
// error.
func (s *UserService) List(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.List(ctx, limit)
}

// Update applies a partial profile update. Only fields present in the
// request are written.
func (s *UserService) Update(ctx context.Context, req model.UpdateUserRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepo.Update(ctx, email, updateFields(req))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Upsert creates the user when the email is unknown, otherwise applies a
// partial update. The create path requires a nickname; the update path
// does not.
func (s *UserService) Upsert(ctx context.Context, req model.UpdateUserRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if req.Nickname == nil || strings.TrimSpace(*req.Nickname) == "" {
			return nil, ErrInvalidNickname
		}
		user := newUserWithDefaults(strings.TrimSpace(*req.Nickname), email)
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				return nil, ErrEmailExists
			}
			return nil, err
		}
		return user, nil
	}

	user, err := s.userRepo.Update(ctx, email, updateFields(req))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Delete removes a user by email
func (s *UserService) Delete(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	err := s.userRepo.Delete(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// MyGroups returns the user's own view of their group memberships.
func (s *UserService) MyGroups(ctx context.Context, email string) (*model.UserGroupsView, error) {
	user, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	return &model.UserGroupsView{
		Email:    user.Email,
		Nickname: user.Nickname,
		MyGroups: user.MyGroups,
	}, nil
}

// GetGroupRef returns the user's myGroups entry for one group, or nil when
// the user has no entry for it.
func (s *UserService) GetGroupRef(ctx context.Context, email, groupID string) (*model.GroupRef, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserOrGroupNotFound
	}

	i := user.RefByGroupID(groupID)
	if i == -1 {
		return nil, nil
	}
	ref := user.MyGroups[i]
	return &ref, nil
}

// AddGroupRef appends a myGroups entry for a group the user does not have
// yet. The read step enforces groupID uniqueness; the append itself is a
// plain push.
func (s *UserService) AddGroupRef(ctx context.Context, groupID string, req model.GroupRefRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.RefByGroupID(groupID) != -1 {
		return nil, ErrGroupRefExists
	}

	return s.userRepo.AppendGroupRef(ctx, email, newGroupRef(groupID, req))
}

// UpdateGroupRef replaces a myGroups entry in place, keeping its position.
// Omitted name and admin fields fall back to their defaults rather than
// keeping the stored values.
func (s *UserService) UpdateGroupRef(ctx context.Context, groupID string, req model.GroupRefRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	i := user.RefByGroupID(groupID)
	if i == -1 {
		return nil, ErrGroupRefNotFound
	}

	refs := make([]model.GroupRef, len(user.MyGroups))
	copy(refs, user.MyGroups)
	refs[i] = newGroupRef(groupID, req)

	return s.userRepo.SetGroupRefs(ctx, email, refs)
}

// RemoveGroupRef deletes a myGroups entry. The group's own roster is not
// touched; callers remove the member from the group separately.
func (s *UserService) RemoveGroupRef(ctx context.Context, groupID string, req model.EmailRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.RefByGroupID(groupID) == -1 {
		return nil, ErrGroupRefNotFound
	}

	return s.userRepo.RemoveGroupRef(ctx, email, groupID)
}

// newUserWithDefaults builds a fresh user document with the standard
// defaults and a random avatar.
func newUserWithDefaults(nickname, email string) *model.User {
	return &model.User{
		Nickname:            nickname,
		Email:               email,
		ProfilePictureURL:   identity.NewAvatarURL(),
		Location:            model.Location{Lat: 0, Lng: 0},
		EnableNotifications: true,
		Incognito:           false,
		UpdateFrequency:     model.DefaultUpdateFrequency,
		Radius:              model.DefaultRadius,
		MyGroups:            []model.GroupRef{},
	}
}

// newGroupRef builds a myGroups entry, applying defaults for omitted
// display metadata.
func newGroupRef(groupID string, req model.GroupRefRequest) model.GroupRef {
	ref := model.GroupRef{
		GroupID: groupID,
		Name:    model.DefaultGroupRefName,
		Admin:   true,
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		ref.Name = strings.TrimSpace(*req.Name)
	}
	if req.Admin != nil {
		ref.Admin = *req.Admin
	}
	return ref
}

// updateFields maps the set fields of a partial update request onto their
// document field names.
func updateFields(req model.UpdateUserRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	if req.Nickname != nil {
		fields["nickname"] = *req.Nickname
	}
	if req.ProfilePictureURL != nil {
		fields["profilePictureURL"] = *req.ProfilePictureURL
	}
	if req.Location != nil {
		fields["location"] = map[string]interface{}{
			"lat": req.Location.Lat,
			"lng": req.Location.Lng,
		}
	}
	if req.EnableNotifications != nil {
		fields["enableNotifications"] = *req.EnableNotifications
	}
	if req.Incognito != nil {
		fields["incognito"] = *req.Incognito
	}
	if req.UpdateFrequency != nil {
		fields["updateFrequency"] = *req.UpdateFrequency
	}
	if req.Radius != nil {
		fields["radius"] = *req.Radius
	}
	if req.MyGroups != nil {
		refs := make([]interface{}, 0, len(*req.MyGroups))
		for _, ref := range *req.MyGroups {
			refs = append(refs, map[string]interface{}{
				"groupID": ref.GroupID,
				"name":    ref.Name,
				"admin":   ref.Admin,
			})
		}
		fields["myGroups"] = refs
	}
	return fields
}
