package policy

import (
	"strings"

	"github.com/park285/boardgame-ai/internal/game"
)

type Level int8

const (
	Easy Level = iota
	Medium
	Hard
)

var Levels = []Level{Easy, Medium, Hard}

func (l Level) String() string {
	switch l {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

func (l Level) Valid() bool { return l >= Easy && l <= Hard }

// ParseLevel accepts level names case-insensitively, plus the older
// beginner/intermediate/advanced names.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy", "beginner":
		return Easy, nil
	case "medium", "intermediate":
		return Medium, nil
	case "hard", "advanced":
		return Hard, nil
	}
	return Easy, game.InvalidSearchParameter("unknown difficulty %q", name)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, game.InvalidSearchParameter("unknown difficulty %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
