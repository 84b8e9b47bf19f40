package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modeltrust/registry/internal/artifact"
)

func TestDatasetCodeDatasets(t *testing.T) {
	m := NewDatasetCodeMetric()

	tests := []struct {
		name     string
		info     artifact.ModelInfo
		expected float64
	}{
		{"nothing linked", artifact.ModelInfo{}, 0.3},
		{
			name:     "card datasets",
			info:     artifact.ModelInfo{CardData: artifact.CardData{Datasets: []string{"squad", "glue"}}},
			expected: 0.3 + 2*0.15,
		},
		{
			name:     "dataset tag",
			info:     artifact.ModelInfo{Tags: []string{"dataset:wikipedia"}},
			expected: 0.3 + 0.15,
		},
		{
			name:     "readme mentions",
			info:     artifact.ModelInfo{Readme: "Trained on wikipedia, fine-tuned on squad."},
			expected: 0.3 + 0.1 + 0.1, // trained-on and fine-tuned-on patterns
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, m.scoreDatasets(&tt.info), 1e-9)
		})
	}
}

func TestDatasetCodeCode(t *testing.T) {
	m := NewDatasetCodeMetric()

	tests := []struct {
		name     string
		info     artifact.ModelInfo
		expected float64
	}{
		{"nothing linked", artifact.ModelInfo{}, 0.3},
		{
			name:     "github link",
			info:     artifact.ModelInfo{Readme: "Code at github.com/org/repo"},
			expected: 0.3 + 0.2,
		},
		{
			name: "code files in manifest",
			info: artifact.ModelInfo{Files: []artifact.FileEntry{
				{Name: "train.py"}, {Name: "config.json"}, {Name: "run.sh"},
			}},
			expected: 0.3 + 0.3,
		},
		{
			name:     "single code file",
			info:     artifact.ModelInfo{Files: []artifact.FileEntry{{Name: "config.json"}}},
			expected: 0.3 + 0.15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, m.scoreCode(&tt.info), 1e-9)
		})
	}
}

func TestDatasetCodeTrainingInfo(t *testing.T) {
	m := NewDatasetCodeMetric()

	info := artifact.ModelInfo{
		Readme: "Training used a learning rate of 2e-5 with batch size 32 over 3 epochs.",
		Files:  []artifact.FileEntry{{Name: "config.json"}, {Name: "training_args.bin"}},
	}

	// Keywords: training, learning rate, batch size, epochs. Config files: two.
	expected := 0.3 + 4*0.1 + 2*0.1
	assert.InDelta(t, expected, m.scoreTrainingInfo(&info), 1e-9)
}

func TestDatasetCodeCalculateWeights(t *testing.T) {
	m := NewDatasetCodeMetric()

	result := m.Calculate(&artifact.ModelInfo{Name: "org/model"})
	assert.Equal(t, "dataset_and_code_score", result.Name)
	assert.InDelta(t, 0.3, result.Value, 1e-9) // all three components at base
}
