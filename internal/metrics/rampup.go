package metrics

import (
	"strings"
	"time"

	"github.com/modeltrust/registry/internal/artifact"
)

// RampUpMetric scores how easy a model is to adopt: README quality (40%),
// runnable examples (30%), model card completeness (20%), popularity (10%).
type RampUpMetric struct{}

func NewRampUpMetric() *RampUpMetric { return &RampUpMetric{} }

func (m *RampUpMetric) Calculate(info *artifact.ModelInfo) artifact.MetricResult {
	start := time.Now()

	scores := map[string]any{
		"readme_quality": m.scoreReadme(info),
		"examples":       m.scoreExamples(info),
		"model_card":     m.scoreModelCard(info),
		"popularity":     m.scorePopularity(info),
	}

	final := scores["readme_quality"].(float64)*0.4 +
		scores["examples"].(float64)*0.3 +
		scores["model_card"].(float64)*0.2 +
		scores["popularity"].(float64)*0.1

	return artifact.NewMetricResult("ramp_up_time", final, time.Since(start).Milliseconds(), map[string]any{
		"component_scores": scores,
		"final_score":      final,
	})
}

func (m *RampUpMetric) scoreReadme(info *artifact.ModelInfo) float64 {
	readme := strings.ToLower(info.Readme)
	if readme == "" {
		return 0.3
	}

	score := 0.3

	sections := [][]string{
		{"usage", "how to use", "getting started", "quick start"},
		{"install", "pip install", "requirements", "dependencies"},
		{"example", "sample", "demo", "```python", "```"},
		{"description", "overview", "about", "introduction"},
		{"performance", "benchmark", "accuracy", "results", "evaluation"},
	}
	for _, keywords := range sections {
		if containsAny(readme, keywords) {
			score += 0.12
		}
	}

	if strings.Count(readme, "```") >= 2 {
		score += 0.1
	}

	return min1(score)
}

func (m *RampUpMetric) scoreExamples(info *artifact.ModelInfo) float64 {
	score := 0.3
	readme := strings.ToLower(info.Readme)

	if strings.Contains(readme, "```python") || strings.Contains(readme, ">>> ") {
		score += 0.3
	}

	exampleHints := []string{"example", "demo", "sample", "notebook", ".ipynb"}
	for _, f := range info.Files {
		if containsAny(strings.ToLower(f.Name), exampleHints) {
			score += 0.2
			break
		}
	}

	// A pipeline tag means the model is usable through a one-line interface.
	if info.PipelineTag != "" {
		score += 0.2
	}

	return min1(score)
}

func (m *RampUpMetric) scoreModelCard(info *artifact.ModelInfo) float64 {
	score := 0.2

	if info.PipelineTag != "" {
		score += 0.2
	}
	if len(info.Tags) >= 3 {
		score += 0.15
	}
	if len(info.Benchmarks) > 0 {
		score += 0.25
	}
	if info.License != "" && info.License != "unknown" {
		score += 0.1
	}
	if info.LibraryName != "" {
		score += 0.1
	}

	return min1(score)
}

func (m *RampUpMetric) scorePopularity(info *artifact.ModelInfo) float64 {
	var downloadScore float64
	switch {
	case info.Downloads >= 1_000_000:
		downloadScore = 1.0
	case info.Downloads >= 100_000:
		downloadScore = 0.8
	case info.Downloads >= 10_000:
		downloadScore = 0.6
	case info.Downloads >= 1_000:
		downloadScore = 0.4
	default:
		downloadScore = 0.2
	}

	var likeScore float64
	switch {
	case info.Likes >= 1_000:
		likeScore = 1.0
	case info.Likes >= 100:
		likeScore = 0.7
	case info.Likes >= 10:
		likeScore = 0.4
	default:
		likeScore = 0.2
	}

	return downloadScore*0.7 + likeScore*0.3
}
