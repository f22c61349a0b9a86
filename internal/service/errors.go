package service

import "errors"

// Service errors. The message strings are part of the API contract: the
// handler layer sends them verbatim inside the error envelope, so clients
// match on them.
var (
	// Validation errors
	ErrInvalidEmail    = errors.New("email is missing or not valid")
	ErrInvalidNickname = errors.New("nickname is missing or not valid")
	ErrInvalidPublic   = errors.New("public is missing or not valid")
	ErrBadGroupCode    = errors.New("bad group code")

	// Conflict errors
	ErrEmailExists    = errors.New("email must be unique")
	ErrMemberExists   = errors.New("user already exists in group")
	ErrGroupRefExists = errors.New("groupID already exists")

	// Not-found errors
	ErrUserNotFound        = errors.New("email not found in DB")
	ErrUserOrGroupNotFound = errors.New("email or groupID not found in DB")
	ErrGroupNotFound       = errors.New("group not found in DB")
	ErrMemberNotFound      = errors.New("user does not exist in group")
	ErrGroupRefNotFound    = errors.New("groupID does not exist")
	ErrNoGroups            = errors.New("no groups in DB")
)
