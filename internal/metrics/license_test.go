package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modeltrust/registry/internal/artifact"
)

func TestNormalizeLicense(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty is unknown", "", "unknown"},
		{"mit lowercase", "mit", "mit"},
		{"mit uppercase", "MIT", "mit"},
		{"mit license suffix", "MIT License", "mit"},
		{"apache with version", "Apache 2.0", "apache-2.0"},
		{"apache spdx", "Apache-2.0", "apache-2.0"},
		{"underscores folded", "apache_2.0", "apache-2.0"},
		{"bsd 3 clause", "BSD 3-Clause", "bsd-3-clause"},
		{"bsd 2 clause", "BSD-2", "bsd-2-clause"},
		{"bare bsd", "BSD", "bsd"},
		{"gpl v3", "GPLv3", "gpl-3.0"},
		{"gpl without version", "GPL", "gpl-2.0"},
		{"lgpl v3", "LGPL-3.0", "lgpl-3.0"},
		{"lgpl without version", "LGPL", "lgpl-2.1"},
		{"agpl", "AGPL-3.0-only", "agpl-3.0"},
		{"unrecognized passes through", "creativeml-openrail-m", "creativeml-openrail-m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeLicense(tt.input))
		})
	}
}

func TestNormalizeLicenseIdempotent(t *testing.T) {
	inputs := []string{"MIT License", "Apache 2.0", "GPLv3", "LGPL", "BSD 3-Clause", "weird license"}
	for _, in := range inputs {
		once := normalizeLicense(in)
		assert.Equal(t, once, normalizeLicense(once), "normalize(%q) not idempotent", in)
	}
}

func TestLicenseExtractPriority(t *testing.T) {
	m := NewLicenseMetric()

	tests := []struct {
		name     string
		info     artifact.ModelInfo
		expected string
	}{
		{
			name:     "explicit field wins",
			info:     artifact.ModelInfo{License: "mit", CardData: artifact.CardData{License: "gpl-3.0"}},
			expected: "mit",
		},
		{
			name:     "card metadata next",
			info:     artifact.ModelInfo{CardData: artifact.CardData{License: "apache-2.0"}, Tags: []string{"license:gpl-3.0"}},
			expected: "apache-2.0",
		},
		{
			name:     "license tag next",
			info:     artifact.ModelInfo{Tags: []string{"pytorch", "license:bsd-3-clause"}},
			expected: "bsd-3-clause",
		},
		{
			name:     "readme declaration last resort",
			info:     artifact.ModelInfo{Readme: "# Model\n\nlicense: mit\n"},
			expected: "mit",
		},
		{
			name:     "nothing found",
			info:     artifact.ModelInfo{},
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.extract(&tt.info))
		})
	}
}

func TestLicenseCalculate(t *testing.T) {
	m := NewLicenseMetric()

	tests := []struct {
		name     string
		license  string
		expected float64
	}{
		{"mit scores full", "MIT", 1.0},
		{"apache slightly lower", "Apache-2.0", 0.9},
		{"gpl copyleft penalty", "GPL-3.0", 0.3},
		{"agpl lowest copyleft", "AGPL-3.0", 0.2},
		{"missing license floors", "", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.Calculate(&artifact.ModelInfo{Name: "org/model", License: tt.license})
			assert.Equal(t, "license", result.Name)
			assert.InDelta(t, tt.expected, result.Value, 1e-9)
			assert.Contains(t, result.Details, "license_normalized")
		})
	}
}

func TestLicenseScoreFallbackStable(t *testing.T) {
	m := NewLicenseMetric()

	// "cc by nc" has no exact table entry and is a substring of three
	// non-commercial keys; the ordered fallback must pick the same one
	// every time.
	normalized := normalizeLicense("cc by nc")
	assert.Equal(t, "cc-by-nc", normalized)

	first := m.score(normalized)
	assert.InDelta(t, 0.4, first, 1e-9)
	for i := 0; i < 100; i++ {
		assert.InDelta(t, first, m.score(normalized), 1e-9)
	}
}

func TestCheckLicenseCompatibility(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"permissive with copyleft", "MIT", "GPL-3.0", true},
		{"same gpl family", "GPL-2.0", "LGPL-3.0", true},
		{"identical normalized", "Apache 2.0", "apache-2.0", true},
		{"openrail family", "openrail", "creativeml-openrail-m", true},
		{"unknown pair rejected", "proprietary", "proprietary-x", false},
		{"copyleft with non-commercial", "GPL-3.0", "cc-by-nc-4.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckLicenseCompatibility(tt.a, tt.b))
		})
	}
}
