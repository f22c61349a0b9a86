package service

import (
	"context"
	"errors"
	"strings"

	"github.com/circle360/api/internal/database"
	"github.com/circle360/api/internal/identity"
	"github.com/circle360/api/internal/model"
)

// codeRetries bounds how often group creation regenerates a colliding code
// before giving up.
const codeRetries = 5

// GroupRepository defines the interface for group storage
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByCode(ctx context.Context, code string) (*model.Group, error)
	List(ctx context.Context, limit int) ([]*model.Group, error)
	SetPublic(ctx context.Context, code string, public bool) (*model.Group, error)
	Delete(ctx context.Context, code string) error
	AddMember(ctx context.Context, code string, member model.Member) (*model.Group, error)
	SetMembers(ctx context.Context, code string, members []model.Member) (*model.Group, error)
	RemoveMember(ctx context.Context, code, email string) (*model.Group, error)
}

// GroupService handles groups and their rosters
type GroupService struct {
	groupRepo GroupRepository
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// Create creates a private group with the creator as its first, already
// accepted member. The group code is random; on a collision with an
// existing code the unique index rejects the write and a fresh code is
// tried.
func (s *GroupService) Create(ctx context.Context, req model.CreateGroupRequest) (*model.Group, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	group := &model.Group{
		Public: false,
		Members: []model.Member{
			{UserID: req.UserID, Email: email, Accepted: true},
		},
	}

	var err error
	for range codeRetries {
		group.GroupCode = identity.NewGroupCode()
		err = s.groupRepo.Create(ctx, group)
		if !errors.Is(err, database.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Get retrieves a group by its code
func (s *GroupService) Get(ctx context.Context, code string) (*model.Group, error) {
	group, err := s.groupRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// List returns up to limit groups. An empty DB is reported as an error,
// matching the contract clients already depend on.
func (s *GroupService) List(ctx context.Context, limit int) ([]*model.Group, error) {
	groups, err := s.groupRepo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}
	return groups, nil
}

// UpdateVisibility flips the public flag. The flag must be present in the
// request; a missing field is rejected rather than treated as false.
func (s *GroupService) UpdateVisibility(ctx context.Context, code string, req model.UpdateGroupRequest) (*model.Group, error) {
	if req.Public == nil {
		return nil, ErrInvalidPublic
	}

	group, err := s.groupRepo.SetPublic(ctx, code, *req.Public)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrBadGroupCode
	}
	return group, nil
}

// Delete removes a group by code. Users' myGroups entries pointing at the
// deleted group are left behind.
func (s *GroupService) Delete(ctx context.Context, code string) error {
	err := s.groupRepo.Delete(ctx, code)
	if errors.Is(err, database.ErrNotFound) {
		return ErrBadGroupCode
	}
	return err
}

// AddMember invites an email to the group. The new roster entry starts
// unaccepted and unbound; ResolveMember later attaches the userID. The
// read step rejects an email already on the roster; the write itself is a
// set-insert, so a racing duplicate add cannot double the entry.
func (s *GroupService) AddMember(ctx context.Context, code string, req model.EmailRequest) (*model.Group, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	group, err := s.groupRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrBadGroupCode
	}
	if group.MemberByEmail(email) != -1 {
		return nil, ErrMemberExists
	}

	updated, err := s.groupRepo.AddMember(ctx, code, model.Member{Email: email, Accepted: false})
	if err != nil {
		return nil, err
	}
	return stripMemberIDs(updated), nil
}

// ResolveMember binds a user to a roster entry and marks it accepted. On a
// public group the entry is set-inserted whether or not the email was
// invited; on a private group the email must already be on the roster, and
// its entry is replaced in place.
func (s *GroupService) ResolveMember(ctx context.Context, code string, req model.ResolveMemberRequest) (*model.Group, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	group, err := s.groupRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrBadGroupCode
	}

	resolved := model.Member{UserID: req.UserID, Email: email, Accepted: true}

	var updated *model.Group
	if group.Public {
		updated, err = s.groupRepo.AddMember(ctx, code, resolved)
	} else {
		i := group.MemberByEmail(email)
		if i == -1 {
			return nil, ErrMemberNotFound
		}
		members := make([]model.Member, len(group.Members))
		copy(members, group.Members)
		members[i] = resolved
		updated, err = s.groupRepo.SetMembers(ctx, code, members)
	}
	if err != nil {
		return nil, err
	}
	return stripMemberIDs(updated), nil
}

// RemoveMember takes an email off the roster.
func (s *GroupService) RemoveMember(ctx context.Context, code string, req model.EmailRequest) (*model.Group, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	group, err := s.groupRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrBadGroupCode
	}
	if group.MemberByEmail(email) == -1 {
		return nil, ErrMemberNotFound
	}

	updated, err := s.groupRepo.RemoveMember(ctx, code, email)
	if err != nil {
		return nil, err
	}
	return stripMemberIDs(updated), nil
}

// stripMemberIDs clears the userID from every roster entry. Membership
// mutations echo the roster back without exposing who is bound to which
// user record.
func stripMemberIDs(group *model.Group) *model.Group {
	if group == nil {
		return nil
	}
	members := make([]model.Member, len(group.Members))
	for i, m := range group.Members {
		m.UserID = ""
		members[i] = m
	}
	stripped := *group
	stripped.Members = members
	return &stripped
}
