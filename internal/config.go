package internal

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type Config struct {
	Host            string `env:"HOST,default=localhost"`
	Port            int    `env:"PORT,default=8080"`
	LogLevel        string `env:"LOG_LEVEL,default=info"`
	DefaultGroup    string `env:"DEFAULT_GROUP,default=CMPS"`
	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
	DebugPort       int    `env:"DEBUG_PORT,default=0"`
}

// ReplacementRune parses CHARACTER_REPLACEMENT, which must be exactly
// one character.
func (c Config) ReplacementRune() (rune, error) {
	r := []rune(c.CharReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			c.CharReplacement,
		)
	}
	return r[0], nil
}

// CensoredWordList splits the comma-separated CENSORED_WORDS value,
// dropping blanks. An empty variable means no moderation.
func (c Config) CensoredWordList() []string {
	if c.CensoredWords == "" {
		return nil
	}
	words := lo.Map(strings.Split(c.CensoredWords, ","), func(w string, _ int) string {
		return strings.TrimSpace(w)
	})
	return lo.Filter(words, func(w string, _ int) bool { return w != "" })
}
