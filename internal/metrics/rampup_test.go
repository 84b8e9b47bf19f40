package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modeltrust/registry/internal/artifact"
)

func TestRampUpEmptyDescriptor(t *testing.T) {
	m := NewRampUpMetric()

	result := m.Calculate(&artifact.ModelInfo{Name: "org/model"})
	assert.Equal(t, "ramp_up_time", result.Name)

	// Bases only: readme 0.3, examples 0.3, card 0.2, popularity 0.2*0.7+0.2*0.3.
	expected := 0.3*0.4 + 0.3*0.3 + 0.2*0.2 + 0.2*0.1
	assert.InDelta(t, expected, result.Value, 1e-9)
}

func TestRampUpReadmeScore(t *testing.T) {
	m := NewRampUpMetric()

	tests := []struct {
		name     string
		readme   string
		expected float64
	}{
		{"empty readme", "", 0.3},
		{"single section", "## Usage\nRun it.", 0.3 + 0.12},
		{
			name:     "all sections with code blocks",
			readme:   "## Usage\n## Installation\npip install x\n## Examples\n```python\nx\n```\n## Overview\n## Benchmark results\n```\ny\n```",
			expected: 1.0, // 0.3 + 5*0.12 + 0.1, capped
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := artifact.ModelInfo{Readme: tt.readme}
			assert.InDelta(t, tt.expected, m.scoreReadme(&info), 1e-9)
		})
	}
}

func TestRampUpExamplesScore(t *testing.T) {
	m := NewRampUpMetric()

	info := artifact.ModelInfo{
		Readme:      "```python\nfrom transformers import pipeline\n```",
		PipelineTag: "text-classification",
		Files:       []artifact.FileEntry{{Name: "demo_notebook.ipynb"}},
	}

	// 0.3 base + 0.3 python block + 0.2 example file + 0.2 pipeline, capped.
	assert.Equal(t, 1.0, m.scoreExamples(&info))
}

func TestRampUpPopularityTiers(t *testing.T) {
	m := NewRampUpMetric()

	tests := []struct {
		name      string
		downloads int64
		likes     int64
		expected  float64
	}{
		{"top tier both", 1_000_000, 1_000, 1.0},
		{"mid downloads low likes", 10_000, 0, 0.6*0.7 + 0.2*0.3},
		{"unknown model", 0, 0, 0.2*0.7 + 0.2*0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := artifact.ModelInfo{Downloads: tt.downloads, Likes: tt.likes}
			assert.InDelta(t, tt.expected, m.scorePopularity(&info), 1e-9)
		})
	}
}
