package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^[-+]?\d+(?:[.,]\d+)?`)

// ParsePercent reads the number at the start of s after removing any "%" sign.
// A comma decimal separator is accepted.
func ParsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ProgressLevel buckets a completion percentage for coloring
type ProgressLevel string

const (
	ProgressHigh     ProgressLevel = "high"
	ProgressMedium   ProgressLevel = "medium"
	ProgressLow      ProgressLevel = "low"
	ProgressCritical ProgressLevel = "critical"
)

// LevelFor classifies an already clamped percentage
func LevelFor(p float64) ProgressLevel {
	switch {
	case p >= 75:
		return ProgressHigh
	case p >= 50:
		return ProgressMedium
	case p >= 25:
		return ProgressLow
	default:
		return ProgressCritical
	}
}

// Progress is a parsed result or completion cell
type Progress struct {
	Raw string `json:"raw"`
	// Value is clamped to 0..100.
	Value float64       `json:"value"`
	Level ProgressLevel `json:"level"`
	// Numeric is false for blank cells and free text.
	Numeric bool `json:"numeric"`
}

// Blank reports whether the cell had no content
func (p Progress) Blank() bool {
	return p.Raw == ""
}

// ParseProgress interprets a percentage cell
func ParseProgress(raw string) Progress {
	raw = strings.TrimSpace(raw)
	p := Progress{Raw: raw}
	v, ok := ParsePercent(raw)
	if !ok {
		return p
	}
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	p.Value = v
	p.Numeric = true
	p.Level = LevelFor(v)
	return p
}
