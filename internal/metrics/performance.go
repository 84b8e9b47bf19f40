package metrics

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/modeltrust/registry/internal/artifact"
)

var benchmarkKeywords = []string{
	"accuracy", "f1", "precision", "recall", "bleu", "rouge",
	"perplexity", "wer", "cer", "map", "iou", "auc", "roc",
	"benchmark", "evaluation", "performance", "results", "sota",
	"state-of-the-art", "leaderboard", "score", "metric",
}

var knownBenchmarks = []string{
	"squad", "glue", "superglue", "mmlu", "hellaswag", "arc",
	"winogrande", "truthfulqa", "gsm8k", "humaneval", "mbpp",
	"imagenet", "coco", "voc", "cityscapes", "librispeech",
	"common_voice", "wmt", "flores", "mteb",
}

// numericResultRe matches numeric claims like "95.2%" or "0.87".
var numericResultRe = regexp.MustCompile(`\b\d+\.?\d*\s*%|\b0\.\d+\b`)

// PerformanceMetric scores the evidence behind a model's performance claims:
// structured evaluation results (50%), benchmark mentions in the README
// (35%), evaluation-related tags (15%).
type PerformanceMetric struct{}

func NewPerformanceMetric() *PerformanceMetric { return &PerformanceMetric{} }

func (m *PerformanceMetric) Calculate(info *artifact.ModelInfo) artifact.MetricResult {
	start := time.Now()

	scores := map[string]any{
		"model_index":       m.scoreBenchmarkEntries(info),
		"readme_benchmarks": m.scoreReadmeBenchmarks(info),
		"tags_evidence":     m.scoreTags(info),
	}

	final := scores["model_index"].(float64)*0.5 +
		scores["readme_benchmarks"].(float64)*0.35 +
		scores["tags_evidence"].(float64)*0.15

	return artifact.NewMetricResult("performance_claims", final, time.Since(start).Milliseconds(), map[string]any{
		"component_scores": scores,
		"final_score":      final,
	})
}

// scoreBenchmarkEntries rewards structured evaluation data: having any
// entries is worth 0.6, with a bonus scaled by the number of reported
// results.
func (m *PerformanceMetric) scoreBenchmarkEntries(info *artifact.ModelInfo) float64 {
	if len(info.Benchmarks) == 0 {
		return 0.3
	}

	score := 0.6

	totalResults := 0
	for _, entry := range info.Benchmarks {
		totalResults += len(entry.Results)
	}

	switch {
	case totalResults >= 5:
		score += 0.4
	case totalResults >= 3:
		score += 0.3
	case totalResults >= 1:
		score += 0.1
	}

	return min1(score)
}

func (m *PerformanceMetric) scoreReadmeBenchmarks(info *artifact.ModelInfo) float64 {
	readme := strings.ToLower(info.Readme)
	if readme == "" {
		return 0.3
	}

	score := 0.3

	keywordMatches := countMatches(readme, benchmarkKeywords)
	score += min(float64(keywordMatches)*0.05, 0.3)

	benchmarkMatches := countMatches(readme, knownBenchmarks)
	score += min(float64(benchmarkMatches)*0.1, 0.3)

	if len(numericResultRe.FindAllString(readme, -1)) >= 5 {
		score += 0.1
	}

	return min1(score)
}

func (m *PerformanceMetric) scoreTags(info *artifact.ModelInfo) float64 {
	tags := make([]string, len(info.Tags))
	for i, t := range info.Tags {
		tags[i] = strings.ToLower(t)
	}

	score := 0.3

	evalTags := []string{"evaluation", "benchmark", "leaderboard", "sota"}
	if anyTagContains(tags, evalTags) {
		score += 0.3
	}

	datasetTags := []string{"dataset:", "trained_on:", "finetuned:"}
	if anyTagContains(tags, datasetTags) {
		score += 0.2
	}

	taskTags := []string{
		"text-classification", "question-answering", "translation",
		"summarization", "text-generation", "image-classification",
	}
	for _, tt := range taskTags {
		if slices.Contains(tags, tt) {
			score += 0.2
			break
		}
	}

	return min1(score)
}

func anyTagContains(tags, needles []string) bool {
	for _, tag := range tags {
		if containsAny(tag, needles) {
			return true
		}
	}
	return false
}
