package model

// Member is one entry in a group's roster. The email is the membership key
// and is unique within a group; userID is bound later, when the invited
// member resolves to a real user. accepted=false means pending invitation.
type Member struct {
	UserID   string `json:"userID,omitempty"`
	Email    string `json:"email"`
	Accepted bool   `json:"accepted"`
}

// Group represents a Circle360 group document. The roster embedded here is
// the canonical record of membership; users keep their own myGroups mirror
// which is never updated automatically (see the service package).
type Group struct {
	ID        string   `json:"id,omitempty"`
	GroupCode string   `json:"groupCode"`
	Public    bool     `json:"public"`
	Members   []Member `json:"members"`
}

// MemberByEmail returns the index of the roster entry with the given email,
// or -1 if absent. Matching is exact; emails are lowercased on the way in.
func (g *Group) MemberByEmail(email string) int {
	for i, m := range g.Members {
		if m.Email == email {
			return i
		}
	}
	return -1
}

// RefByGroupID returns the index of the myGroups entry with the given
// groupID, or -1 if absent.
func (u *User) RefByGroupID(groupID string) int {
	for i, ref := range u.MyGroups {
		if ref.GroupID == groupID {
			return i
		}
	}
	return -1
}

// CreateGroupRequest represents a request to create a group. The creator
// becomes the first roster entry, already accepted.
type CreateGroupRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userID,omitempty"`
}

// UpdateGroupRequest carries the visibility update. Public is a pointer so
// a missing field is distinguishable from an explicit false.
type UpdateGroupRequest struct {
	Public *bool `json:"public"`
}

// ResolveMemberRequest binds a user identifier to a roster entry.
type ResolveMemberRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userID,omitempty"`
}
