package policy

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/park285/boardgame-ai/internal/game"
)

//go:embed profiles.yaml
var defaultProfilesYAML []byte

// Profile turns a difficulty level into search parameters.
type Profile struct {
	Random      bool    `yaml:"random"`
	Depth       int     `yaml:"depth"`
	BlunderRate float64 `yaml:"blunder_rate"`
}

type Profiles struct {
	Easy   Profile `yaml:"easy"`
	Medium Profile `yaml:"medium"`
	Hard   Profile `yaml:"hard"`
}

// ProfileSet holds the profiles of every supported game.
type ProfileSet struct {
	TicTacToe Profiles `yaml:"tictactoe"`
	Chess     Profiles `yaml:"chess"`
}

// For returns the profile of level. An unknown level is a programming error
// and panics.
func (p Profiles) For(level Level) Profile {
	switch level {
	case Easy:
		return p.Easy
	case Medium:
		return p.Medium
	case Hard:
		return p.Hard
	}
	panic(game.InvalidSearchParameter("unknown difficulty %d", int(level)))
}

func (p *Profiles) set(level Level, profile Profile) {
	switch level {
	case Easy:
		p.Easy = profile
	case Medium:
		p.Medium = profile
	case Hard:
		p.Hard = profile
	}
}

// Update applies fn to the profile of level.
func (p *Profiles) Update(level Level, fn func(*Profile)) {
	profile := p.For(level)
	fn(&profile)
	p.set(level, profile)
}

func ValidateProfile(p Profile) error {
	switch {
	case p.Depth < 0:
		return fmt.Errorf("depth must be >= 0: %d", p.Depth)
	case math.IsNaN(p.BlunderRate) || p.BlunderRate < 0 || p.BlunderRate > 1:
		return fmt.Errorf("blunder rate must be in [0,1]: %f", p.BlunderRate)
	case !p.Random && p.Depth == 0:
		return fmt.Errorf("searching profile needs depth > 0")
	}
	return nil
}

func (p Profiles) Validate() error {
	for _, level := range Levels {
		if err := ValidateProfile(p.For(level)); err != nil {
			return fmt.Errorf("%s: %w", level, err)
		}
	}
	return nil
}

func (s ProfileSet) Validate() error {
	if err := s.TicTacToe.Validate(); err != nil {
		return fmt.Errorf("tictactoe %w", err)
	}
	if err := s.Chess.Validate(); err != nil {
		return fmt.Errorf("chess %w", err)
	}
	return nil
}

// DefaultProfiles returns the built-in profiles.
func DefaultProfiles() ProfileSet {
	var set ProfileSet
	if err := yaml.Unmarshal(defaultProfilesYAML, &set); err != nil {
		panic(fmt.Sprintf("policy: embedded profiles: %v", err))
	}
	return set
}

// LoadProfiles overlays the YAML file at path on the built-in profiles. Keys
// missing from the file keep their defaults. An empty path returns the
// defaults.
func LoadProfiles(path string) (ProfileSet, error) {
	set := DefaultProfiles()
	if path == "" {
		return set, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("read profiles: %w", err)
	}
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return ProfileSet{}, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	if err := set.Validate(); err != nil {
		return ProfileSet{}, fmt.Errorf("profiles %s: %w", path, err)
	}
	return set, nil
}
