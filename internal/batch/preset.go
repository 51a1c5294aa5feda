package batch

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Preset selects the quality/speed trade-off for the encoder.
type Preset string

const (
	PresetLow    Preset = "low"
	PresetMedium Preset = "medium"
	PresetHigh   Preset = "high"
)

// presetSettings carries the libx264 parameters behind a preset.
type presetSettings struct {
	crf   int
	speed string
}

var presetTable = map[Preset]presetSettings{
	PresetLow:    {crf: 28, speed: "fast"},
	PresetMedium: {crf: 23, speed: "medium"},
	PresetHigh:   {crf: 18, speed: "slow"},
}

// Presets lists the known presets from lowest to highest quality.
func Presets() []Preset {
	return []Preset{PresetLow, PresetMedium, PresetHigh}
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	_, ok := presetTable[p]
	return ok
}

// CRF returns the constant rate factor for the preset. Unknown presets
// fall back to medium so a hand-built Job still encodes sanely.
func (p Preset) CRF() int {
	return p.settings().crf
}

// Speed returns the x264 encoder preset name.
func (p Preset) Speed() string {
	return p.settings().speed
}

func (p Preset) settings() presetSettings {
	if s, ok := presetTable[p]; ok {
		return s
	}
	return presetTable[PresetMedium]
}

// ParsePreset converts user input to a Preset, case-insensitively.
// Unknown values are rejected with a closest-match suggestion.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if p.Valid() {
		return p, nil
	}
	if suggestion := suggestPreset(string(p)); suggestion != "" {
		return "", fmt.Errorf("unknown quality %q (did you mean %q?)", s, suggestion)
	}
	return "", fmt.Errorf("unknown quality %q (valid: low, medium, high)", s)
}

// suggestPreset returns the nearest preset name, or "" when nothing is
// close enough to be a plausible typo.
func suggestPreset(s string) string {
	best, bestScore := "", 0.0
	for _, p := range Presets() {
		score := float64(edlib.JaroWinklerSimilarity(s, string(p)))
		if score > bestScore {
			best, bestScore = string(p), score
		}
	}
	if bestScore >= 0.7 {
		return best
	}
	return ""
}
