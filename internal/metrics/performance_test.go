package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modeltrust/registry/internal/artifact"
)

func TestPerformanceBenchmarkEntries(t *testing.T) {
	m := NewPerformanceMetric()

	entry := func(n int) artifact.BenchmarkEntry {
		results := make([]artifact.BenchmarkResult, n)
		for i := range results {
			results[i] = artifact.BenchmarkResult{Metric: "accuracy", Value: 0.9}
		}
		return artifact.BenchmarkEntry{Task: "text-classification", Dataset: "glue", Results: results}
	}

	tests := []struct {
		name     string
		entries  []artifact.BenchmarkEntry
		expected float64
	}{
		{"no structured data", nil, 0.3},
		{"entry with one result", []artifact.BenchmarkEntry{entry(1)}, 0.7},
		{"three results", []artifact.BenchmarkEntry{entry(3)}, 0.9},
		{"five results across entries", []artifact.BenchmarkEntry{entry(3), entry(2)}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := artifact.ModelInfo{Benchmarks: tt.entries}
			assert.InDelta(t, tt.expected, m.scoreBenchmarkEntries(&info), 1e-9)
		})
	}
}

func TestPerformanceReadmeBenchmarks(t *testing.T) {
	m := NewPerformanceMetric()

	tests := []struct {
		name     string
		readme   string
		expected float64
	}{
		{"empty readme", "", 0.3},
		{"one keyword", "See the benchmark section.", 0.3 + 0.05},
		{
			name:     "keywords and known benchmarks with numbers",
			readme:   "Evaluation results on GLUE and SQuAD: accuracy 92.1%, F1 88.5%, precision 90.2%, recall 87.3%, score 0.91",
			expected: 0.9, // keyword cap 0.3 + two known benchmarks 0.2 + numeric bonus 0.1
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := artifact.ModelInfo{Readme: tt.readme}
			assert.InDelta(t, tt.expected, m.scoreReadmeBenchmarks(&info), 1e-9)
		})
	}
}

func TestPerformanceTags(t *testing.T) {
	m := NewPerformanceMetric()

	tests := []struct {
		name     string
		tags     []string
		expected float64
	}{
		{"no tags", nil, 0.3},
		{"eval tag", []string{"leaderboard"}, 0.6},
		{"dataset tag", []string{"dataset:squad"}, 0.5},
		{"task tag exact match", []string{"translation"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := artifact.ModelInfo{Tags: tt.tags}
			assert.InDelta(t, tt.expected, m.scoreTags(&info), 1e-9)
		})
	}
}
