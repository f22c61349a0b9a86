package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/circle360/api/internal/database"
	"github.com/circle360/api/internal/identity"
	"github.com/circle360/api/internal/model"
)

// ============================================================================
// Mock Repository
// ============================================================================

type mockGroupRepo struct {
	createFunc       func(ctx context.Context, group *model.Group) error
	getByCodeFunc    func(ctx context.Context, code string) (*model.Group, error)
	listFunc         func(ctx context.Context, limit int) ([]*model.Group, error)
	setPublicFunc    func(ctx context.Context, code string, public bool) (*model.Group, error)
	deleteFunc       func(ctx context.Context, code string) error
	addMemberFunc    func(ctx context.Context, code string, member model.Member) (*model.Group, error)
	setMembersFunc   func(ctx context.Context, code string, members []model.Member) (*model.Group, error)
	removeMemberFunc func(ctx context.Context, code, email string) (*model.Group, error)
}

func (m *mockGroupRepo) Create(ctx context.Context, group *model.Group) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, group)
	}
	group.ID = "circle:1"
	return nil
}

func (m *mockGroupRepo) GetByCode(ctx context.Context, code string) (*model.Group, error) {
	if m.getByCodeFunc != nil {
		return m.getByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *mockGroupRepo) List(ctx context.Context, limit int) ([]*model.Group, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockGroupRepo) SetPublic(ctx context.Context, code string, public bool) (*model.Group, error) {
	if m.setPublicFunc != nil {
		return m.setPublicFunc(ctx, code, public)
	}
	return &model.Group{GroupCode: code, Public: public}, nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, code string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, code)
	}
	return nil
}

func (m *mockGroupRepo) AddMember(ctx context.Context, code string, member model.Member) (*model.Group, error) {
	if m.addMemberFunc != nil {
		return m.addMemberFunc(ctx, code, member)
	}
	return &model.Group{GroupCode: code, Members: []model.Member{member}}, nil
}

func (m *mockGroupRepo) SetMembers(ctx context.Context, code string, members []model.Member) (*model.Group, error) {
	if m.setMembersFunc != nil {
		return m.setMembersFunc(ctx, code, members)
	}
	return &model.Group{GroupCode: code, Members: members}, nil
}

func (m *mockGroupRepo) RemoveMember(ctx context.Context, code, email string) (*model.Group, error) {
	if m.removeMemberFunc != nil {
		return m.removeMemberFunc(ctx, code, email)
	}
	return &model.Group{GroupCode: code}, nil
}

// ============================================================================
// Create
// ============================================================================

func TestCreateGroup_CreatorIsAcceptedMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewGroupService(&mockGroupRepo{})

	group, err := svc.Create(ctx, model.CreateGroupRequest{Email: "Ana@B.IO", UserID: "user:1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.Public {
		t.Error("expected new group to be private")
	}
	if len(group.Members) != 1 {
		t.Fatalf("expected one member, got %d", len(group.Members))
	}
	m := group.Members[0]
	if m.Email != "ana@b.io" || !m.Accepted || m.UserID != "user:1" {
		t.Errorf("unexpected creator entry: %+v", m)
	}
	if len(group.GroupCode) != identity.GroupCodeLength {
		t.Errorf("expected %d-char code, got %q", identity.GroupCodeLength, group.GroupCode)
	}
	for _, c := range group.GroupCode {
		if !strings.ContainsRune(identity.GroupCodeCharset, c) {
			t.Errorf("code %q contains invalid character %q", group.GroupCode, c)
		}
	}
}

func TestCreateGroup_InvalidEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewGroupService(&mockGroupRepo{})

	_, err := svc.Create(ctx, model.CreateGroupRequest{Email: "not-an-email"})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestCreateGroup_RetriesOnCodeCollision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attempts := 0
	codes := map[string]bool{}
	repo := &mockGroupRepo{
		createFunc: func(ctx context.Context, group *model.Group) error {
			attempts++
			codes[group.GroupCode] = true
			if attempts < 3 {
				return database.ErrDuplicate
			}
			group.ID = "circle:1"
			return nil
		},
	}
	svc := NewGroupService(repo)

	group, err := svc.Create(ctx, model.CreateGroupRequest{Email: "a@b.io"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(codes) != 3 {
		t.Errorf("expected a fresh code per attempt, saw %d distinct codes", len(codes))
	}
	if group.ID != "circle:1" {
		t.Errorf("expected created group, got %+v", group)
	}
}

func TestCreateGroup_GivesUpAfterRetries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attempts := 0
	repo := &mockGroupRepo{
		createFunc: func(ctx context.Context, group *model.Group) error {
			attempts++
			return database.ErrDuplicate
		},
	}
	svc := NewGroupService(repo)

	_, err := svc.Create(ctx, model.CreateGroupRequest{Email: "a@b.io"})
	if !errors.Is(err, database.ErrDuplicate) {
		t.Errorf("expected duplicate error after retries, got %v", err)
	}
	if attempts != codeRetries {
		t.Errorf("expected %d attempts, got %d", codeRetries, attempts)
	}
}

// ============================================================================
// Get / List / UpdateVisibility / Delete
// ============================================================================

func TestGetGroup_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewGroupService(&mockGroupRepo{})

	_, err := svc.Get(ctx, "ABC123")
	if !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestListGroups_Empty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockGroupRepo{
		listFunc: func(ctx context.Context, limit int) ([]*model.Group, error) {
			return []*model.Group{}, nil
		},
	}
	svc := NewGroupService(repo)

	_, err := svc.List(ctx, 10)
	if !errors.Is(err, ErrNoGroups) {
		t.Errorf("expected ErrNoGroups, got %v", err)
	}
}

func TestUpdateVisibility_MissingFlag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewGroupService(&mockGroupRepo{})

	_, err := svc.UpdateVisibility(ctx, "ABC123", model.UpdateGroupRequest{})
	if !errors.Is(err, ErrInvalidPublic) {
		t.Errorf("expected ErrInvalidPublic, got %v", err)
	}
}

func TestUpdateVisibility_ExplicitFalseIsAccepted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewGroupService(&mockGroupRepo{})

	public := false
	group, err := svc.UpdateVisibility(ctx, "ABC123", model.UpdateGroupRequest{Public: &public})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.Public {
		t.Error("expected group to be private")
	}
}

func TestUpdateVisibility_BadCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockGroupRepo{
		setPublicFunc: func(ctx context.Context, code string, public bool) (*model.Group, error) {
			return nil, nil
		},
	}
	svc := NewGroupService(repo)

	public := true
	_, err := svc.UpdateVisibility(ctx, "NOPE", model.UpdateGroupRequest{Public: &public})
	if !errors.Is(err, ErrBadGroupCode) {
		t.Errorf("expected ErrBadGroupCode, got %v", err)
	}
}

func TestDeleteGroup_BadCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockGroupRepo{
		deleteFunc: func(ctx context.Context, code string) error {
			return database.ErrNotFound
		},
	}
	svc := NewGroupService(repo)

	err := svc.Delete(ctx, "NOPE")
	if !errors.Is(err, ErrBadGroupCode) {
		t.Errorf("expected ErrBadGroupCode, got %v", err)
	}
}

// ============================================================================
// Roster
// ============================================================================

func TestAddMember_InviteStartsPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var added model.Member
	repo := &mockGroupRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*model.Group, error) {
			return &model.Group{GroupCode: code}, nil
		},
		addMemberFunc: func(ctx context.Context, code string, member model.Member) (*model.Group, error) {
			added = member
			return &model.Group{GroupCode: code, Members: []model.Member{member}}, nil
		},
	}
	svc := NewGroupService(repo)

	_, err := svc.AddMember(ctx, "ABC123", model.EmailRequest{Email: "New@B.IO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added.Email != "new@b.io" {
		t.Errorf("expected lowercased email, got %q", added.Email)
	}
	if added.Accepted {
		t.Error("expected invite to start unaccepted")
	}
	if added.UserID != "" {
		t.Errorf("expected unbound invite, got userID %q", added.UserID)
	}
}

func TestAddMember_Conflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockGroupRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*model.Group, error) {
			return &model.Group{
				GroupCode: code,
				Members:   []model.Member{{Email: "dup@b.io", Accepted: false}},
			}, nil
		},
	}
	svc := NewGroupService(repo)

	_, err := svc.AddMember(ctx, "ABC123", model.EmailRequest{Email: "dup@b.io"})
	if !errors.Is(err, ErrMemberExists) {
		t.Errorf("expected ErrMemberExists, got %v", err)
	}
}

func TestAddMember_BadCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewGroupService(&mockGroupRepo{})

	_, err := svc.AddMember(ctx, "NOPE", model.EmailRequest{Email: "a@b.io"})
	if !errors.Is(err, ErrBadGroupCode) {
		t.Errorf("expected ErrBadGroupCode, got %v", err)
	}
}

func TestResolveMember_PublicAutoAccepts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var added model.Member
	repo := &mockGroupRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*model.Group, error) {
			return &model.Group{GroupCode: code, Public: true}, nil
		},
		addMemberFunc: func(ctx context.Context, code string, member model.Member) (*model.Group, error) {
			added = member
			return &model.Group{GroupCode: code, Public: true, Members: []model.Member{member}}, nil
		},
	}
	svc := NewGroupService(repo)

	group, err := svc.ResolveMember(ctx, "ABC123", model.ResolveMemberRequest{Email: "a@b.io", UserID: "user:1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added.Accepted || added.UserID != "user:1" {
		t.Errorf("expected bound accepted entry, got %+v", added)
	}
	for _, m := range group.Members {
		if m.UserID != "" {
			t.Errorf("expected userID stripped from response, got %+v", m)
		}
	}
}

func TestResolveMember_PrivateRequiresInvite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockGroupRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*model.Group, error) {
			return &model.Group{GroupCode: code, Public: false}, nil
		},
	}
	svc := NewGroupService(repo)

	_, err := svc.ResolveMember(ctx, "ABC123", model.ResolveMemberRequest{Email: "a@b.io", UserID: "user:1"})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestResolveMember_PrivateReplacesInPlace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var replaced []model.Member
	repo := &mockGroupRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*model.Group, error) {
			return &model.Group{
				GroupCode: code,
				Public:    false,
				Members: []model.Member{
					{Email: "first@b.io", Accepted: true, UserID: "user:1"},
					{Email: "invited@b.io", Accepted: false},
					{Email: "third@b.io", Accepted: true, UserID: "user:3"},
				},
			}, nil
		},
		setMembersFunc: func(ctx context.Context, code string, members []model.Member) (*model.Group, error) {
			replaced = members
			return &model.Group{GroupCode: code, Members: members}, nil
		},
	}
	svc := NewGroupService(repo)

	_, err := svc.ResolveMember(ctx, "ABC123", model.ResolveMemberRequest{Email: "invited@b.io", UserID: "user:2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(replaced) != 3 {
		t.Fatalf("expected full roster replace, got %d entries", len(replaced))
	}
	if replaced[0].Email != "first@b.io" || replaced[2].Email != "third@b.io" {
		t.Errorf("expected order preserved, got %+v", replaced)
	}
	if !replaced[1].Accepted || replaced[1].UserID != "user:2" {
		t.Errorf("expected resolved entry in place, got %+v", replaced[1])
	}
}

func TestRemoveMember_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockGroupRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*model.Group, error) {
			return &model.Group{GroupCode: code}, nil
		},
	}
	svc := NewGroupService(repo)

	_, err := svc.RemoveMember(ctx, "ABC123", model.EmailRequest{Email: "gone@b.io"})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestRemoveMember_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockGroupRepo{
		getByCodeFunc: func(ctx context.Context, code string) (*model.Group, error) {
			return &model.Group{
				GroupCode: code,
				Members:   []model.Member{{Email: "a@b.io", Accepted: true, UserID: "user:1"}},
			}, nil
		},
		removeMemberFunc: func(ctx context.Context, code, email string) (*model.Group, error) {
			return &model.Group{GroupCode: code, Members: []model.Member{}}, nil
		},
	}
	svc := NewGroupService(repo)

	group, err := svc.RemoveMember(ctx, "ABC123", model.EmailRequest{Email: "a@b.io"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(group.Members) != 0 {
		t.Errorf("expected empty roster, got %+v", group.Members)
	}
}
