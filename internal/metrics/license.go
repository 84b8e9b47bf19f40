package metrics

import (
	"regexp"
	"strings"
	"time"

	"github.com/modeltrust/registry/internal/artifact"
)

// readmeLicenseRe matches "license: <id>" declarations in free-text docs.
var readmeLicenseRe = regexp.MustCompile(`license[:\s]+([a-z0-9\-\.]+)`)

// licenseEntry pairs a normalized license key with its score.
type licenseEntry struct {
	key   string
	score float64
}

// LicenseMetric scores how permissive an artifact's license is. The score
// table favors permissive licenses (MIT/BSD/Apache), penalizes copyleft and
// non-commercial terms, and bottoms out at 0.1 for an unknown license. The
// table is an ordered slice so the substring fallback in score resolves a
// license matching several keys to the same entry on every call.
type LicenseMetric struct {
	table []licenseEntry
	exact map[string]float64
}

// NewLicenseMetric builds the metric with its immutable score table.
func NewLicenseMetric() *LicenseMetric {
	table := []licenseEntry{
		// Very permissive
		{"mit", 1.0},
		{"bsd-3-clause", 1.0},
		{"bsd-2-clause", 1.0},
		{"bsd", 1.0},
		{"apache-2.0", 0.9},
		{"apache", 0.9},
		{"unlicense", 1.0},
		{"cc0-1.0", 1.0},
		{"wtfpl", 1.0},
		{"isc", 1.0},

		// Somewhat permissive
		{"cc-by-4.0", 0.8},
		{"cc-by-sa-4.0", 0.7},
		{"openrail", 0.8},
		{"openrail++", 0.8},
		{"bigscience-openrail-m", 0.75},
		{"creativeml-openrail-m", 0.75},
		{"llama2", 0.7},
		{"llama3", 0.7},
		{"gemma", 0.7},

		// Copyleft
		{"lgpl-2.1", 0.6},
		{"lgpl-3.0", 0.6},
		{"lgpl", 0.6},
		{"mpl-2.0", 0.6},
		{"gpl-2.0", 0.3},
		{"gpl-3.0", 0.3},
		{"gpl", 0.3},
		{"agpl-3.0", 0.2},
		{"agpl", 0.2},

		// Non-commercial
		{"cc-by-nc-4.0", 0.4},
		{"cc-by-nc-sa-4.0", 0.3},
		{"cc-by-nc-nd-4.0", 0.2},

		// Unknown/other
		{"other", 0.3},
		{"unknown", 0.1},
	}

	exact := make(map[string]float64, len(table))
	for _, e := range table {
		exact[e.key] = e.score
	}
	return &LicenseMetric{table: table, exact: exact}
}

// Calculate scores the license dimension of a model.
func (m *LicenseMetric) Calculate(info *artifact.ModelInfo) artifact.MetricResult {
	start := time.Now()

	detected := m.extract(info)
	normalized := normalizeLicense(detected)
	score := m.score(normalized)

	return artifact.NewMetricResult("license", score, time.Since(start).Milliseconds(), map[string]any{
		"license_detected":   detected,
		"license_normalized": normalized,
		"score":              score,
	})
}

// extract resolves the license string through the priority chain: explicit
// field, card metadata, license-prefixed tag, README declaration, "unknown".
func (m *LicenseMetric) extract(info *artifact.ModelInfo) string {
	if info.License != "" {
		return info.License
	}
	if info.CardData.License != "" {
		return info.CardData.License
	}
	for _, tag := range info.Tags {
		if strings.Contains(strings.ToLower(tag), "license:") {
			parts := strings.SplitN(tag, ":", 2)
			return strings.TrimSpace(parts[1])
		}
	}
	if info.Readme != "" {
		if match := readmeLicenseRe.FindStringSubmatch(strings.ToLower(info.Readme)); match != nil {
			return match[1]
		}
	}
	return "unknown"
}

// score looks up the normalized license, falling back to substring
// containment against the table keys in order (first match wins) and finally
// to 0.3 for anything unrecognized.
func (m *LicenseMetric) score(normalized string) float64 {
	if s, ok := m.exact[normalized]; ok {
		return s
	}
	for _, e := range m.table {
		if strings.Contains(normalized, e.key) || strings.Contains(e.key, normalized) {
			return e.score
		}
	}
	return 0.3
}

// normalizeLicense canonicalizes a raw license string: lowercase, whitespace
// and underscores folded to hyphens, and family-aware folding for the
// Apache/BSD/GPL families. Idempotent.
func normalizeLicense(license string) string {
	if license == "" {
		return "unknown"
	}

	normalized := strings.ToLower(strings.TrimSpace(license))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")

	switch {
	case strings.Contains(normalized, "apache") && strings.Contains(normalized, "2"):
		return "apache-2.0"
	case normalized == "mit" || normalized == "mit-license":
		return "mit"
	case strings.Contains(normalized, "bsd"):
		if strings.Contains(normalized, "3") {
			return "bsd-3-clause"
		}
		if strings.Contains(normalized, "2") {
			return "bsd-2-clause"
		}
		return "bsd"
	case strings.Contains(normalized, "gpl"):
		if strings.Contains(normalized, "lgpl") {
			if strings.Contains(normalized, "3") {
				return "lgpl-3.0"
			}
			return "lgpl-2.1"
		}
		if strings.Contains(normalized, "agpl") {
			return "agpl-3.0"
		}
		if strings.Contains(normalized, "3") {
			return "gpl-3.0"
		}
		return "gpl-2.0"
	}

	return normalized
}

var (
	permissiveLicenses = map[string]bool{
		"mit": true, "bsd": true, "bsd-2-clause": true, "bsd-3-clause": true,
		"apache-2.0": true, "unlicense": true, "cc0-1.0": true,
	}
	gplFamily = map[string]bool{
		"gpl-2.0": true, "gpl-3.0": true, "lgpl-2.1": true, "lgpl-3.0": true,
	}
	openRAILFamily = map[string]bool{
		"openrail": true, "openrail++": true,
		"bigscience-openrail-m": true, "creativeml-openrail-m": true,
	}
)

// CheckLicenseCompatibility decides whether two licenses are jointly usable.
// A permissive license is compatible with anything; otherwise the two must be
// the same normalized license, members of the same known family (GPL or
// OpenRAIL), or both individually permissive enough (score >= 0.7).
func CheckLicenseCompatibility(licenseA, licenseB string) bool {
	m := NewLicenseMetric()
	a := normalizeLicense(licenseA)
	b := normalizeLicense(licenseB)

	if permissiveLicenses[a] || permissiveLicenses[b] {
		return true
	}
	if a == b {
		return true
	}
	if gplFamily[a] && gplFamily[b] {
		return true
	}
	if openRAILFamily[a] && openRAILFamily[b] {
		return true
	}

	return m.score(a) >= 0.7 && m.score(b) >= 0.7
}
