package errors

import "fmt"

var (
	ErrMalformedRequest    = fmt.Errorf("malformed request")
	ErrPayloadTooLarge     = fmt.Errorf("payload exceeds wire capacity")
	ErrDuplicateEmail      = fmt.Errorf("email already exists")
	ErrUnknownEmail        = fmt.Errorf("email does not exist")
	ErrBadPassword         = fmt.Errorf("incorrect password")
	ErrNotGroupMember      = fmt.Errorf("not a member of this group")
	ErrAlreadyGroupMember  = fmt.Errorf("already a member of this group")
	ErrInvalidRegistration = fmt.Errorf("invalid registration")
)
