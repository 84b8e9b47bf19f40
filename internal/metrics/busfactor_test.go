package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/modeltrust/registry/internal/artifact"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestBusFactorOrganization(t *testing.T) {
	m := NewBusFactorMetric()

	tests := []struct {
		name     string
		info     artifact.ModelInfo
		expected float64
	}{
		{"trusted owner segment", artifact.ModelInfo{Name: "google/bert-base"}, 0.95},
		{"trusted owner case insensitive", artifact.ModelInfo{Name: "Google/bert-base"}, 0.95},
		{"org hint in tags gets discount", artifact.ModelInfo{Name: "someone/model", Tags: []string{"by-huggingface"}}, 0.9 * 0.9},
		{"highest scoring tag org wins", artifact.ModelInfo{Name: "someone/model", Tags: []string{"cohere", "deepmind"}}, 0.95 * 0.9},
		{"unknown org", artifact.ModelInfo{Name: "someone/model"}, 0.5},
		{"org name inside model segment ignored", artifact.ModelInfo{Name: "someone/google-style-model"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, m.scoreOrganization(&tt.info), 1e-9)
		})
	}
}

func TestBusFactorActivity(t *testing.T) {
	m := NewBusFactorMetric()
	m.now = fixedNow

	tests := []struct {
		name         string
		lastModified string
		expected     float64
	}{
		{"this week", "2025-06-12T08:00:00Z", 1.0},
		{"this week without zone offset", "2025-06-12T08:00:00", 1.0},
		{"this month", "2025-05-25T08:00:00Z", 0.9},
		{"this quarter", "2025-04-01", 0.8},
		{"half a year", "2025-01-10", 0.6},
		{"within a year", "2024-08-01", 0.4},
		{"stale", "2022-01-01", 0.3},
		{"missing", "", 0.4},
		{"unparseable", "last tuesday", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := artifact.ModelInfo{LastModified: tt.lastModified}
			assert.Equal(t, tt.expected, m.scoreActivity(&info))
		})
	}
}

func TestBusFactorCommunity(t *testing.T) {
	m := NewBusFactorMetric()

	tests := []struct {
		name      string
		downloads int64
		likes     int64
		expected  float64
	}{
		{"flagship", 2_000_000, 5_000, 1.0},
		{"well established", 150_000, 200, 0.9},
		{"growing", 20_000, 60, 0.8},
		{"niche", 2_000, 15, 0.6},
		{"barely used", 150, 0, 0.4},
		{"new upload", 0, 0, 0.3},
		{"downloads without likes stays low", 2_000_000, 0, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := artifact.ModelInfo{Downloads: tt.downloads, Likes: tt.likes}
			assert.Equal(t, tt.expected, m.scoreCommunity(&info))
		})
	}
}

func TestBusFactorCalculateWeights(t *testing.T) {
	m := NewBusFactorMetric()
	m.now = fixedNow

	info := artifact.ModelInfo{
		Name:         "google/bert-base",
		LastModified: "2025-06-12T08:00:00Z",
		Downloads:    2_000_000,
		Likes:        5_000,
	}

	result := m.Calculate(&info)
	assert.Equal(t, "bus_factor", result.Name)
	assert.InDelta(t, 0.95*0.3+1.0*0.4+1.0*0.3, result.Value, 1e-9)
}
