package protocol

import (
	"fmt"
	"strings"

	"campus-chat/errors"
)

// Request payloads are single delimited strings whose sub-fields are
// separated by one space and parsed positionally per request type.
// Only the last field of a MESSAGE payload may itself contain spaces.

// ParseLogin splits a LOGIN payload of the form "<email> <password>".
func ParseLogin(payload string) (email, password string, err error) {
	email, password, ok := strings.Cut(payload, " ")
	if !ok || email == "" || password == "" || strings.Contains(password, " ") {
		return "", "", fmt.Errorf("%w: login payload needs \"email password\"", errors.ErrMalformedRequest)
	}
	return email, password, nil
}

// ParseRegister splits a REGISTER payload of the form
// "<email> <name> <password>".
func ParseRegister(payload string) (email, name, password string, err error) {
	parts := strings.Split(payload, " ")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: register payload needs \"email name password\"", errors.ErrMalformedRequest)
	}
	return parts[0], parts[1], parts[2], nil
}

// ParseMessage splits a MESSAGE payload of the form "<group> <body>".
// The body runs to the end of the payload and may contain spaces.
func ParseMessage(payload string) (group, body string, err error) {
	group, body, ok := strings.Cut(payload, " ")
	if !ok || group == "" || body == "" {
		return "", "", fmt.Errorf("%w: message payload needs \"group body\"", errors.ErrMalformedRequest)
	}
	return group, body, nil
}

// ParseJoinGroup reads a JOIN_GROUP payload holding a single group name.
func ParseJoinGroup(payload string) (group string, err error) {
	group = strings.TrimSpace(payload)
	if group == "" || strings.Contains(group, " ") {
		return "", fmt.Errorf("%w: join payload needs a single group name", errors.ErrMalformedRequest)
	}
	return group, nil
}
