// Package aiprofile loads and validates versioned AI behavior profiles.
//
// A profile is a YAML artifact authored outside the engine. It carries a
// semantic version; the engine accepts any profile whose major version
// matches the supported major. Invalid profiles are rejected before any of
// their values reach a running simulation.
package aiprofile

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SupportedMajor is the profile schema major version this engine understands.
const SupportedMajor = 1

// Weights tunes one difficulty tier of a scripted opponent.
type Weights struct {
	// ReactionTime is the delay, in fixed steps, before the opponent reacts
	// to a change in ball direction.
	ReactionTime int `yaml:"reaction_time" json:"reaction_time" jsonschema:"minimum=0,maximum=600"`
	// TrackingGain scales how aggressively the opponent closes the gap to
	// its target position, in [0,1].
	TrackingGain float64 `yaml:"tracking_gain" json:"tracking_gain" jsonschema:"minimum=0,maximum=1"`
	// MaxSpeed caps the opponent's paddle speed in world units per second.
	MaxSpeed float64 `yaml:"max_speed" json:"max_speed" jsonschema:"minimum=0"`
	// Jitter is the amplitude of deterministic aim noise in world units.
	Jitter float64 `yaml:"jitter" json:"jitter" jsonschema:"minimum=0"`
}

// Profile is a named, versioned set of difficulty tiers.
type Profile struct {
	Name      string             `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	Version   string             `yaml:"version" json:"version" jsonschema:"required,pattern=^[0-9]+\\.[0-9]+\\.[0-9]+$"`
	CreatedAt time.Time          `yaml:"created_at" json:"created_at"`
	Tiers     map[string]Weights `yaml:"tiers" json:"tiers" jsonschema:"required"`
}

// Tier returns the weights for the named difficulty tier.
func (p *Profile) Tier(name string) (Weights, bool) {
	w, ok := p.Tiers[name]
	return w, ok
}

// Load reads and validates a profile file. On any error the returned profile
// is nil; a partially parsed profile never escapes.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("aiprofile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a profile from YAML bytes.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("aiprofile: parse: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks version compatibility and weight ranges.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("aiprofile: missing name")
	}
	major, err := parseMajor(p.Version)
	if err != nil {
		return err
	}
	if major != SupportedMajor {
		return fmt.Errorf("aiprofile: %s: version %s has major %d, engine supports %d",
			p.Name, p.Version, major, SupportedMajor)
	}
	if len(p.Tiers) == 0 {
		return fmt.Errorf("aiprofile: %s: no difficulty tiers", p.Name)
	}
	for tier, w := range p.Tiers {
		if err := w.validate(); err != nil {
			return fmt.Errorf("aiprofile: %s: tier %q: %w", p.Name, tier, err)
		}
	}
	return nil
}

func (w Weights) validate() error {
	if w.ReactionTime < 0 || w.ReactionTime > 600 {
		return fmt.Errorf("reaction_time %d out of range [0,600]", w.ReactionTime)
	}
	for name, v := range map[string]float64{
		"tracking_gain": w.TrackingGain,
		"max_speed":     w.MaxSpeed,
		"jitter":        w.Jitter,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite", name)
		}
		if v < 0 {
			return fmt.Errorf("%s %v is negative", name, v)
		}
	}
	if w.TrackingGain > 1 {
		return fmt.Errorf("tracking_gain %v out of range [0,1]", w.TrackingGain)
	}
	return nil
}

// parseMajor extracts the major component of a MAJOR.MINOR.PATCH version.
// Compatibility needs only the major component, so a full semver parser is
// not pulled in.
func parseMajor(version string) (int, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return 0, fmt.Errorf("aiprofile: version %q is not MAJOR.MINOR.PATCH", version)
	}
	for _, part := range parts {
		if part == "" {
			return 0, fmt.Errorf("aiprofile: version %q is not MAJOR.MINOR.PATCH", version)
		}
		if _, err := strconv.Atoi(part); err != nil {
			return 0, fmt.Errorf("aiprofile: version %q is not MAJOR.MINOR.PATCH", version)
		}
	}
	major, _ := strconv.Atoi(parts[0])
	if major < 0 {
		return 0, fmt.Errorf("aiprofile: version %q has negative major", version)
	}
	return major, nil
}

// Default returns the built-in profile used when no file is supplied.
func Default() *Profile {
	return &Profile{
		Name:    "builtin",
		Version: "1.0.0",
		Tiers: map[string]Weights{
			"easy":   {ReactionTime: 18, TrackingGain: 0.4, MaxSpeed: 180, Jitter: 24},
			"normal": {ReactionTime: 9, TrackingGain: 0.7, MaxSpeed: 260, Jitter: 12},
			"hard":   {ReactionTime: 3, TrackingGain: 0.95, MaxSpeed: 340, Jitter: 4},
		},
	}
}
