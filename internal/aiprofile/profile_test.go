package aiprofile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validProfile = `
name: tournament
version: 1.2.0
created_at: 2026-03-01T12:00:00Z
tiers:
  easy:
    reaction_time: 20
    tracking_gain: 0.3
    max_speed: 160
    jitter: 30
  hard:
    reaction_time: 2
    tracking_gain: 0.9
    max_speed: 320
    jitter: 5
`

func TestParseValidProfile(t *testing.T) {
	p, err := Parse([]byte(validProfile))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Name != "tournament" || p.Version != "1.2.0" {
		t.Fatalf("header wrong: %+v", p)
	}
	hard, ok := p.Tier("hard")
	if !ok {
		t.Fatal("hard tier missing")
	}
	if hard.ReactionTime != 2 || hard.TrackingGain != 0.9 {
		t.Fatalf("hard tier wrong: %+v", hard)
	}
	if _, ok := p.Tier("impossible"); ok {
		t.Fatal("unknown tier reported present")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(validProfile), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestRejectsIncompatibleMajor(t *testing.T) {
	bad := strings.Replace(validProfile, "version: 1.2.0", "version: 2.0.0", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("major version 2 accepted by a major-1 engine")
	}
	// Minor and patch bumps within the supported major are fine.
	ok := strings.Replace(validProfile, "version: 1.2.0", "version: 1.9.3", 1)
	if _, err := Parse([]byte(ok)); err != nil {
		t.Fatalf("compatible minor bump rejected: %v", err)
	}
}

func TestRejectsMalformedVersion(t *testing.T) {
	for _, v := range []string{"1.2", "v1.2.0", "1.2.0-rc1", "one.two.three", ""} {
		bad := strings.Replace(validProfile, "version: 1.2.0", "version: "+`"`+v+`"`, 1)
		if _, err := Parse([]byte(bad)); err == nil {
			t.Fatalf("version %q accepted", v)
		}
	}
}

func TestRejectsOutOfRangeWeights(t *testing.T) {
	cases := map[string]string{
		"negative reaction": "reaction_time: 20",
		"gain above one":    "tracking_gain: 0.3",
		"negative speed":    "max_speed: 160",
		"infinite jitter":   "jitter: 30",
	}
	replacements := map[string]string{
		"negative reaction": "reaction_time: -1",
		"gain above one":    "tracking_gain: 1.5",
		"negative speed":    "max_speed: -10",
		"infinite jitter":   "jitter: .inf",
	}
	for name, orig := range cases {
		bad := strings.Replace(validProfile, orig, replacements[name], 1)
		if _, err := Parse([]byte(bad)); err == nil {
			t.Fatalf("%s accepted", name)
		}
	}
}

func TestRejectsEmptyProfile(t *testing.T) {
	if _, err := Parse([]byte("name: empty\nversion: 1.0.0\ntiers: {}\n")); err == nil {
		t.Fatal("profile without tiers accepted")
	}
	if _, err := Parse([]byte("version: 1.0.0\ntiers: {easy: {}}\n")); err == nil {
		t.Fatal("profile without name accepted")
	}
}

func TestDefaultProfileIsValid(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("built-in profile invalid: %v", err)
	}
	for _, tier := range []string{"easy", "normal", "hard"} {
		if _, ok := p.Tier(tier); !ok {
			t.Fatalf("built-in profile missing tier %q", tier)
		}
	}
}

func TestSchemaExport(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatalf("schema export failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{"reaction_time", "tracking_gain", "max_speed", "jitter", "version", "tiers"} {
		if !strings.Contains(s, want) {
			t.Fatalf("schema missing %q:\n%s", want, s)
		}
	}
}
