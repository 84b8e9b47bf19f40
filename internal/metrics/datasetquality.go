package metrics

import (
	"regexp"
	"strings"
	"time"

	"github.com/modeltrust/registry/internal/artifact"
)

// qualityDatasets maps well-known training corpora to a curation score.
var qualityDatasets = map[string]float64{
	"wikipedia":    0.9,
	"bookcorpus":   0.8,
	"c4":           0.85,
	"openwebtext":  0.8,
	"pile":         0.85,
	"redpajama":    0.85,
	"squad":        0.9,
	"glue":         0.9,
	"superglue":    0.9,
	"imagenet":     0.95,
	"coco":         0.9,
	"laion":        0.75,
	"common_crawl": 0.7,
	"librispeech":  0.9,
	"common_voice": 0.85,
}

// dataStatsRe matches dataset-size statements like "40k samples".
var dataStatsRe = regexp.MustCompile(`\b\d+[kmbt]?\s*(samples|examples|instances|records)`)

// DatasetQualityMetric scores the quality of a model's training data:
// recognized corpora (50%), dataset documentation (30%), curation evidence
// (20%).
type DatasetQualityMetric struct{}

func NewDatasetQualityMetric() *DatasetQualityMetric { return &DatasetQualityMetric{} }

func (m *DatasetQualityMetric) Calculate(info *artifact.ModelInfo) artifact.MetricResult {
	start := time.Now()

	scores := map[string]any{
		"known_datasets":        m.scoreKnownDatasets(info),
		"dataset_documentation": m.scoreDocumentation(info),
		"data_curation":         m.scoreCuration(info),
	}

	final := scores["known_datasets"].(float64)*0.5 +
		scores["dataset_documentation"].(float64)*0.3 +
		scores["data_curation"].(float64)*0.2

	return artifact.NewMetricResult("dataset_quality", final, time.Since(start).Milliseconds(), map[string]any{
		"component_scores": scores,
		"final_score":      final,
	})
}

// scoreKnownDatasets searches the README, tags, and card metadata for
// recognized corpora and takes the best match, never dropping below the 0.4
// base.
func (m *DatasetQualityMetric) scoreKnownDatasets(info *artifact.ModelInfo) float64 {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(info.Readme))
	for _, tag := range info.Tags {
		sb.WriteString(" ")
		sb.WriteString(strings.ToLower(tag))
	}
	for _, ds := range info.CardData.Datasets {
		sb.WriteString(" ")
		sb.WriteString(strings.ToLower(ds))
	}
	searchText := sb.String()

	best := 0.4
	for dataset, quality := range qualityDatasets {
		if strings.Contains(searchText, dataset) && quality > best {
			best = quality
		}
	}

	return best
}

func (m *DatasetQualityMetric) scoreDocumentation(info *artifact.ModelInfo) float64 {
	readme := strings.ToLower(info.Readme)
	score := 0.3

	docKeywords := []string{
		"data collection", "data source", "data preprocessing",
		"data cleaning", "data filtering", "dataset size",
		"training data", "data quality", "data curation",
	}
	score += min(float64(countMatches(readme, docKeywords))*0.1, 0.5)

	if dataStatsRe.MatchString(readme) {
		score += 0.2
	}

	return min1(score)
}

func (m *DatasetQualityMetric) scoreCuration(info *artifact.ModelInfo) float64 {
	readme := strings.ToLower(info.Readme)
	score := 0.4

	curationKeywords := []string{
		"curated", "filtered", "cleaned", "quality control",
		"human review", "annotation", "labeled", "verified",
	}
	score += min(float64(countMatches(readme, curationKeywords))*0.15, 0.4)

	if containsAny(readme, []string{"bias", "fairness", "ethics", "limitations"}) {
		score += 0.2
	}

	return min1(score)
}
