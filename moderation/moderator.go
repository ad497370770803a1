package moderation

import (
	"sort"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator censors configured words in message bodies before they are
// stored and broadcast. Matching is case-insensitive via an
// Aho-Corasick automaton, so the cost stays linear in the message
// length no matter how many words are configured.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewModerator builds the automaton from the word list. An empty list
// yields a pass-through moderator.
func NewModerator(words []string, replacement rune) (*Moderator, error) {
	if len(words) == 0 {
		return &Moderator{replacement: replacement}, nil
	}

	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = []rune(strings.ToLower(word))
	}
	// The underlying double-array trie expects its keywords ordered.
	sort.Slice(patterns, func(i, j int) bool {
		return string(patterns[i]) < string(patterns[j])
	})

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, replacement: replacement}, nil
}

// Censor replaces every occurrence of a configured word with the
// replacement rune, preserving the length and spacing of the original
// text.
func (m *Moderator) Censor(text string) string {
	if m.matcher == nil {
		return text
	}

	original := []rune(text)
	lowered := make([]rune, len(original))
	for i, r := range original {
		lowered[i] = unicode.ToLower(r)
	}

	terms := m.matcher.MultiPatternSearch(lowered, false)
	if len(terms) == 0 {
		return text
	}

	for _, term := range terms {
		end := term.Pos + len(term.Word)
		if term.Pos < 0 || end > len(original) {
			continue
		}
		for i := term.Pos; i < end; i++ {
			original[i] = m.replacement
		}
	}
	return string(original)
}
