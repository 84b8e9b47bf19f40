package metrics

import (
	"regexp"
	"strings"
	"time"

	"github.com/modeltrust/registry/internal/artifact"
)

var (
	datasetMentionRes = []*regexp.Regexp{
		regexp.MustCompile(`trained\s+on\s+([a-z0-9_\-]+)`),
		regexp.MustCompile(`fine.?tuned\s+on\s+([a-z0-9_\-]+)`),
		regexp.MustCompile(`dataset[:\s]+([a-z0-9_\-]+)`),
		regexp.MustCompile(`huggingface\.co/datasets/`),
	}
	githubLinkRe = regexp.MustCompile(`(?i)github\.com/[a-z0-9_\-]+/[a-z0-9_\-]+`)
)

// DatasetCodeMetric scores how reproducible a model's provenance is: linked
// datasets (40%), linked code (40%), documented training setup (20%).
type DatasetCodeMetric struct{}

func NewDatasetCodeMetric() *DatasetCodeMetric { return &DatasetCodeMetric{} }

func (m *DatasetCodeMetric) Calculate(info *artifact.ModelInfo) artifact.MetricResult {
	start := time.Now()

	scores := map[string]any{
		"dataset_linked": m.scoreDatasets(info),
		"code_linked":    m.scoreCode(info),
		"training_info":  m.scoreTrainingInfo(info),
	}

	final := scores["dataset_linked"].(float64)*0.4 +
		scores["code_linked"].(float64)*0.4 +
		scores["training_info"].(float64)*0.2

	return artifact.NewMetricResult("dataset_and_code_score", final, time.Since(start).Milliseconds(), map[string]any{
		"component_scores": scores,
		"final_score":      final,
	})
}

func (m *DatasetCodeMetric) scoreDatasets(info *artifact.ModelInfo) float64 {
	score := 0.3

	if n := len(info.CardData.Datasets); n > 0 {
		score += min(float64(n)*0.15, 0.4)
	}

	for _, tag := range info.Tags {
		if strings.HasPrefix(tag, "dataset:") {
			score += 0.15
		}
	}

	readme := strings.ToLower(info.Readme)
	for _, re := range datasetMentionRes {
		if re.MatchString(readme) {
			score += 0.1
		}
	}

	return min1(score)
}

func (m *DatasetCodeMetric) scoreCode(info *artifact.ModelInfo) float64 {
	readme := strings.ToLower(info.Readme)
	score := 0.3

	if links := githubLinkRe.FindAllString(readme, -1); len(links) > 0 {
		score += min(float64(len(links))*0.2, 0.4)
	}

	codeExtensions := []string{".py", ".ipynb", ".sh", ".yaml", ".yml", ".json"}
	codeFiles := 0
	for _, f := range info.Files {
		for _, ext := range codeExtensions {
			if strings.HasSuffix(f.Name, ext) {
				codeFiles++
				break
			}
		}
	}
	switch {
	case codeFiles >= 3:
		score += 0.3
	case codeFiles >= 1:
		score += 0.15
	}

	return min1(score)
}

func (m *DatasetCodeMetric) scoreTrainingInfo(info *artifact.ModelInfo) float64 {
	readme := strings.ToLower(info.Readme)
	score := 0.3

	trainingKeywords := []string{
		"training", "fine-tuning", "fine tuning", "hyperparameter",
		"learning rate", "batch size", "epochs", "optimizer",
		"training script", "training code", "reproduce",
	}
	score += min(float64(countMatches(readme, trainingKeywords))*0.1, 0.5)

	configFiles := []string{"config.json", "training_args.bin", "trainer_state.json"}
	for _, f := range info.Files {
		for _, cf := range configFiles {
			if f.Name == cf {
				score += 0.1
				break
			}
		}
	}

	return min1(score)
}
