package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCensor(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"exam", "answers"}, '*')
	req.NoError(err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single word", "the exam is tomorrow", "the **** is tomorrow"},
		{"case insensitive", "the EXAM is tomorrow", "the **** is tomorrow"},
		{"multiple words", "exam answers here", "**** ******* here"},
		{"no match", "see you in class", "see you in class"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, moderator.Censor(tt.in))
		})
	}
}

func TestCensorWithoutConfiguredWords(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator(nil, '*')
	req.NoError(err)

	req.Equal("anything goes", moderator.Censor("anything goes"))
}
