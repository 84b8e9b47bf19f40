package metrics

import (
	"strings"
	"time"

	"github.com/modeltrust/registry/internal/artifact"
)

// CodeQualityMetric scores engineering quality. For models it weighs repo
// structure (40%), documentation (35%), and testing evidence (25%); for
// standalone code repositories it weighs repo health (40%), community (30%),
// and maintenance recency (30%).
type CodeQualityMetric struct {
	now func() time.Time
}

func NewCodeQualityMetric() *CodeQualityMetric {
	return &CodeQualityMetric{now: time.Now}
}

func (m *CodeQualityMetric) Calculate(info *artifact.ModelInfo) artifact.MetricResult {
	start := time.Now()

	scores := map[string]any{
		"code_structure": m.scoreCodeStructure(info),
		"documentation":  m.scoreDocumentation(info),
		"testing":        m.scoreTesting(info),
	}

	final := scores["code_structure"].(float64)*0.4 +
		scores["documentation"].(float64)*0.35 +
		scores["testing"].(float64)*0.25

	return artifact.NewMetricResult("code_quality", final, time.Since(start).Milliseconds(), map[string]any{
		"component_scores": scores,
		"final_score":      final,
	})
}

// CalculateForRepo scores a code repository directly from its hosting
// metadata rather than a model manifest.
func (m *CodeQualityMetric) CalculateForRepo(info *artifact.CodeInfo) artifact.MetricResult {
	start := time.Now()

	scores := map[string]any{
		"repo_health": m.scoreRepoHealth(info),
		"community":   m.scoreRepoCommunity(info),
		"maintenance": m.scoreMaintenance(info),
	}

	final := scores["repo_health"].(float64)*0.4 +
		scores["community"].(float64)*0.3 +
		scores["maintenance"].(float64)*0.3

	return artifact.NewMetricResult("code_quality", final, time.Since(start).Milliseconds(), map[string]any{
		"component_scores": scores,
		"final_score":      final,
	})
}

func (m *CodeQualityMetric) scoreCodeStructure(info *artifact.ModelInfo) float64 {
	score := 0.4

	wellKnownFiles := map[string]float64{
		"config.json":             0.1,
		"tokenizer.json":          0.1,
		"tokenizer_config.json":   0.05,
		"special_tokens_map.json": 0.05,
		"model.safetensors":       0.1,
		"pytorch_model.bin":       0.1,
	}
	for _, f := range info.Files {
		if bonus, ok := wellKnownFiles[f.Name]; ok {
			score += bonus
		}
	}

	for _, f := range info.Files {
		if strings.HasSuffix(f.Name, ".py") {
			score += 0.1
			break
		}
	}

	return min1(score)
}

func (m *CodeQualityMetric) scoreDocumentation(info *artifact.ModelInfo) float64 {
	readme := strings.ToLower(info.Readme)
	score := 0.3

	if strings.Contains(readme, "```python") {
		score += 0.2
	}
	if strings.Contains(readme, "parameters") || strings.Contains(readme, "arguments") {
		score += 0.15
	}
	if strings.Contains(readme, "type") &&
		(strings.Contains(readme, "hint") || strings.Contains(readme, "annotation")) {
		score += 0.15
	}

	switch {
	case len(info.Readme) > 5000:
		score += 0.2
	case len(info.Readme) > 2000:
		score += 0.1
	}

	return min1(score)
}

func (m *CodeQualityMetric) scoreTesting(info *artifact.ModelInfo) float64 {
	readme := strings.ToLower(info.Readme)
	score := 0.3

	for _, f := range info.Files {
		if strings.Contains(strings.ToLower(f.Name), "test") {
			score += 0.3
			break
		}
	}

	if containsAny(readme, []string{"test", "pytest", "unittest"}) {
		score += 0.2
	}

	ciHints := []string{"github actions", "ci/cd", "continuous integration", "travis", "circleci"}
	if containsAny(readme, ciHints) {
		score += 0.2
	}

	return min1(score)
}

func (m *CodeQualityMetric) scoreRepoHealth(info *artifact.CodeInfo) float64 {
	score := 0.4

	switch {
	case info.Stars >= 10_000:
		score += 0.3
	case info.Stars >= 1_000:
		score += 0.2
	case info.Stars >= 100:
		score += 0.1
	}

	switch {
	case info.Forks >= 1_000:
		score += 0.2
	case info.Forks >= 100:
		score += 0.1
	}

	if info.License != "" && info.License != "unknown" {
		score += 0.1
	}

	return min1(score)
}

// scoreRepoCommunity rewards a moderate issue load and a healthy fork/star
// ratio. A repository with zero issues is likely unused; one with hundreds
// is likely struggling.
func (m *CodeQualityMetric) scoreRepoCommunity(info *artifact.CodeInfo) float64 {
	score := 0.4

	switch issues := info.OpenIssues; {
	case issues >= 10 && issues <= 100:
		score += 0.3
	case issues < 10:
		score += 0.2
	case issues <= 500:
		score += 0.1
	}

	if info.Stars > 0 {
		ratio := float64(info.Forks) / float64(info.Stars)
		switch {
		case ratio >= 0.1 && ratio <= 0.5:
			score += 0.3
		case ratio < 0.1 || ratio <= 0.7:
			score += 0.2
		}
	}

	return min1(score)
}

func (m *CodeQualityMetric) scoreMaintenance(info *artifact.CodeInfo) float64 {
	score := 0.4

	days, ok := daysSince(info.LastUpdated, m.now())
	if !ok {
		return score
	}

	switch {
	case days <= 30:
		score += 0.4
	case days <= 90:
		score += 0.3
	case days <= 180:
		score += 0.2
	case days <= 365:
		score += 0.1
	}

	return min1(score)
}
