package model

import "time"

// Location is a last-known coordinate pair. Stored and echoed back; the
// server applies no geo logic to it.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GroupRef is a user's own view of one of their groups. The name and admin
// flag are per-user display metadata, independent of the group's roster.
type GroupRef struct {
	GroupID string `json:"groupID"`
	Name    string `json:"name"`
	Admin   bool   `json:"admin"`
}

// User represents a Circle360 user document.
type User struct {
	ID                  string     `json:"id,omitempty"`
	Nickname            string     `json:"nickname"`
	Email               string     `json:"email"`
	ProfilePictureURL   string     `json:"profilePictureURL,omitempty"`
	Location            Location   `json:"location"`
	EnableNotifications bool       `json:"enableNotifications"`
	Incognito           bool       `json:"incognito"`
	UpdateFrequency     int        `json:"updateFrequency"`
	Radius              int        `json:"radius"`
	MyGroups            []GroupRef `json:"myGroups"`
	CreatedOn           time.Time  `json:"createdOn,omitempty"`
	UpdatedOn           time.Time  `json:"updatedOn,omitempty"`
}

// Defaults applied when a user is created.
const (
	DefaultUpdateFrequency = 5
	DefaultRadius          = 5

	// DefaultGroupRefName is used when a myGroups entry is added without a name.
	DefaultGroupRefName = "New Group"
)

// UserGroupsView is the projection returned by the my-groups listing.
type UserGroupsView struct {
	Email    string     `json:"email"`
	Nickname string     `json:"nickname"`
	MyGroups []GroupRef `json:"myGroups"`
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// UpdateUserRequest represents a partial user update. Only non-nil fields
// are written; everything else keeps its stored value.
type UpdateUserRequest struct {
	Email               string      `json:"email"`
	Nickname            *string     `json:"nickname,omitempty"`
	ProfilePictureURL   *string     `json:"profilePictureURL,omitempty"`
	Location            *Location   `json:"location,omitempty"`
	EnableNotifications *bool       `json:"enableNotifications,omitempty"`
	Incognito           *bool       `json:"incognito,omitempty"`
	UpdateFrequency     *int        `json:"updateFrequency,omitempty"`
	Radius              *int        `json:"radius,omitempty"`
	MyGroups            *[]GroupRef `json:"myGroups,omitempty"`
}

// GroupRefRequest carries the body of the user-side membership mirror
// operations (email plus optional display metadata).
type GroupRefRequest struct {
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
	Admin *bool   `json:"admin,omitempty"`
}

// EmailRequest carries operations whose body is just an email.
type EmailRequest struct {
	Email string `json:"email"`
}
