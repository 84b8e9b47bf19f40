package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modeltrust/registry/internal/artifact"
)

func TestHardwareScoreBrackets(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		limit    int64
		expected float64
	}{
		{"zero size fits everything", 0, gib, 1.0},
		{"quarter of limit", gib / 4, gib, 1.0},
		{"half of limit", gib / 2, gib, 0.9},
		{"three quarters", 3 * gib / 4, gib, 0.7},
		{"exactly at limit", gib, gib, 0.5},
		{"fifty percent over", 3 * gib / 2, gib, 0.2},
		{"double the limit", 2 * gib, gib, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hardwareScore(tt.size, tt.limit))
		})
	}
}

func TestSizeEstimateFromManifest(t *testing.T) {
	m := NewSizeMetric()

	info := artifact.ModelInfo{
		Name: "org/model",
		Files: []artifact.FileEntry{
			{Name: "model.safetensors", SizeBytes: 400 * mib},
			{Name: "tokenizer.json", SizeBytes: 2 * mib},
		},
	}

	assert.Equal(t, int64(402*mib), m.estimateSize(&info))
}

func TestSizeEstimateFromNamePatterns(t *testing.T) {
	m := NewSizeMetric()

	tests := []struct {
		name     string
		model    string
		expected int64
	}{
		{"7b parameter count", "meta/llama-7b", 13 * gib},
		{"parameter count beats tier name", "org/llama-7b-base", 13 * gib},
		{"tiny tier", "org/bert-tiny", 100 * mib},
		{"base tier", "org/roberta-base", 500 * mib},
		{"xl tier", "org/flan-xl", 6 * gib},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.estimateSize(&artifact.ModelInfo{Name: tt.model}))
		})
	}
}

func TestSizeEstimateFallbackChain(t *testing.T) {
	m := NewSizeMetric()

	tests := []struct {
		name     string
		info     artifact.ModelInfo
		expected int64
	}{
		{"bert architecture", artifact.ModelInfo{Name: "org/bert-uncased-v9"}, 500 * mib},
		{"gpt2 architecture", artifact.ModelInfo{Name: "org/gpt2-variant"}, 600 * mib},
		{"whisper default tier", artifact.ModelInfo{Name: "org/whisper-turbo"}, 500 * mib},
		{"popular models assumed small", artifact.ModelInfo{Name: "org/mystery", Downloads: 2_000_000}, 500 * mib},
		{"unknown defaults to 2gib", artifact.ModelInfo{Name: "org/mystery"}, 2 * gib},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.estimateSize(&tt.info))
		})
	}
}

func TestSizeCalculate(t *testing.T) {
	m := NewSizeMetric()

	// A 500 MiB model: ratio 0.49 on the pi, well under everything else.
	info := artifact.ModelInfo{
		Name:  "org/roberta-base",
		Files: []artifact.FileEntry{{Name: "model.bin", SizeBytes: 500 * mib}},
	}

	result := m.Calculate(&info)
	assert.Equal(t, "size_score", result.Name)

	hw, ok := result.Details["hardware_scores"].(artifact.SizeScore)
	assert.True(t, ok)
	assert.Equal(t, 0.9, hw.RaspberryPi)
	assert.Equal(t, 1.0, hw.JetsonNano)
	assert.Equal(t, 1.0, hw.DesktopPC)
	assert.Equal(t, 1.0, hw.AWSServer)
	assert.InDelta(t, (0.9+1.0+1.0+1.0)/4, result.Value, 1e-9)
}
