package protocol

import (
	"testing"

	"campus-chat/errors"

	"github.com/stretchr/testify/require"
)

func TestParseLogin(t *testing.T) {
	req := require.New(t)

	email, password, err := ParseLogin("a@x.com pw1")
	req.NoError(err)
	req.Equal("a@x.com", email)
	req.Equal("pw1", password)

	for _, payload := range []string{"", "a@x.com", "a@x.com ", " pw1", "a@x.com pw 1"} {
		_, _, err := ParseLogin(payload)
		req.ErrorIs(err, errors.ErrMalformedRequest, "payload %q", payload)
	}
}

func TestParseRegister(t *testing.T) {
	req := require.New(t)

	email, name, password, err := ParseRegister("a@x.com Alice pw1")
	req.NoError(err)
	req.Equal("a@x.com", email)
	req.Equal("Alice", name)
	req.Equal("pw1", password)

	for _, payload := range []string{"", "a@x.com Alice", "a@x.com  pw1", "a@x.com Alice pw1 extra"} {
		_, _, _, err := ParseRegister(payload)
		req.ErrorIs(err, errors.ErrMalformedRequest, "payload %q", payload)
	}
}

func TestParseMessage(t *testing.T) {
	req := require.New(t)

	group, body, err := ParseMessage("CMPS hello there everyone")
	req.NoError(err)
	req.Equal("CMPS", group)
	req.Equal("hello there everyone", body)

	for _, payload := range []string{"", "CMPS", "CMPS "} {
		_, _, err := ParseMessage(payload)
		req.ErrorIs(err, errors.ErrMalformedRequest, "payload %q", payload)
	}
}

func TestParseJoinGroup(t *testing.T) {
	req := require.New(t)

	group, err := ParseJoinGroup("CMPS340")
	req.NoError(err)
	req.Equal("CMPS340", group)

	group, err = ParseJoinGroup("  CMPS352  ")
	req.NoError(err)
	req.Equal("CMPS352", group)

	for _, payload := range []string{"", "   ", "two groups"} {
		_, err := ParseJoinGroup(payload)
		req.ErrorIs(err, errors.ErrMalformedRequest, "payload %q", payload)
	}
}
