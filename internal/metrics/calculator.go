package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/modeltrust/registry/internal/artifact"
)

// netScoreWeights defines each metric's contribution to the net score. The
// size score is gated separately per hardware target and deliberately
// excluded here. Kept as an ordered slice so summation order, and therefore
// the rounded result, is identical across runs.
var netScoreWeights = []struct {
	name   string
	weight float64
}{
	{"license", 0.15},
	{"ramp_up_time", 0.20},
	{"bus_factor", 0.10},
	{"performance_claims", 0.15},
	{"dataset_and_code_score", 0.20},
	{"dataset_quality", 0.10},
	{"code_quality", 0.10},
}

// categoryEntry maps a task category to the tag keywords that imply it.
// Checked in order, so earlier categories win when keywords overlap.
type categoryEntry struct {
	category string
	keywords []string
}

var categoryEntries = []categoryEntry{
	{"text-generation", []string{"text-generation", "gpt", "llm", "causal-lm"}},
	{"text-classification", []string{"text-classification", "sentiment", "classifier"}},
	{"question-answering", []string{"question-answering", "qa", "squad"}},
	{"translation", []string{"translation", "nmt", "mt"}},
	{"summarization", []string{"summarization", "summary"}},
	{"image-classification", []string{"image-classification", "vision", "resnet", "vit"}},
	{"object-detection", []string{"object-detection", "yolo", "detection"}},
	{"speech-recognition", []string{"speech-recognition", "asr", "whisper", "wav2vec"}},
	{"text-to-speech", []string{"text-to-speech", "tts"}},
	{"feature-extraction", []string{"feature-extraction", "embedding", "sentence-transformer"}},
}

// Config tunes the calculator. The zero value is usable; NewCalculator
// applies defaults before validation.
type Config struct {
	// MaxWorkers bounds concurrent sub-scorer execution. Defaults to
	// min(8, GOMAXPROCS).
	MaxWorkers int `validate:"gte=0,lte=64"`
}

// scorer is one named sub-scorer in the fan-out set.
type scorer struct {
	name string
	fn   func(*artifact.ModelInfo) artifact.MetricResult
}

// Calculator fans all sub-scorers out over a bounded worker group and
// assembles their results into a single Rating. A panicking sub-scorer is
// contained and replaced with a neutral 0.5 result; evaluation itself never
// fails.
type Calculator struct {
	maxWorkers  int
	scorers     []scorer
	codeQuality *CodeQualityMetric
	logger      *slog.Logger
}

// NewCalculator builds a Calculator with the full sub-scorer set.
func NewCalculator(cfg Config, logger *slog.Logger) (*Calculator, error) {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = min(8, runtime.GOMAXPROCS(0))
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid calculator config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	license := NewLicenseMetric()
	size := NewSizeMetric()
	rampUp := NewRampUpMetric()
	busFactor := NewBusFactorMetric()
	performance := NewPerformanceMetric()
	datasetCode := NewDatasetCodeMetric()
	datasetQuality := NewDatasetQualityMetric()
	codeQuality := NewCodeQualityMetric()

	c := &Calculator{
		maxWorkers:  cfg.MaxWorkers,
		codeQuality: codeQuality,
		logger:      logger,
	}
	c.scorers = []scorer{
		{"license", license.Calculate},
		{"ramp_up_time", rampUp.Calculate},
		{"bus_factor", busFactor.Calculate},
		{"performance_claims", performance.Calculate},
		{"dataset_and_code_score", datasetCode.Calculate},
		{"dataset_quality", datasetQuality.Calculate},
		{"code_quality", codeQuality.Calculate},
		{"size_score", size.Calculate},
	}
	return c, nil
}

// Rate evaluates every metric for the model and assembles the full Rating.
// Sub-scorer latencies are their own wall-clock times; the net score latency
// is the wall-clock time of the whole fan-out.
func (c *Calculator) Rate(ctx context.Context, info *artifact.ModelInfo) artifact.Rating {
	start := time.Now()

	results := c.runScorers(ctx, info)
	netLatency := time.Since(start)

	rating := artifact.Rating{
		Name:     info.Name,
		Category: c.determineCategory(info),
		NetScore: c.netScore(results),

		NetScoreLatency: netLatency.Seconds(),

		License:        results["license"].Value,
		LicenseLatency: latencySeconds(results["license"]),

		RampUpTime:        results["ramp_up_time"].Value,
		RampUpTimeLatency: latencySeconds(results["ramp_up_time"]),

		BusFactor:        results["bus_factor"].Value,
		BusFactorLatency: latencySeconds(results["bus_factor"]),

		PerformanceClaims:        results["performance_claims"].Value,
		PerformanceClaimsLatency: latencySeconds(results["performance_claims"]),

		DatasetAndCodeScore:        results["dataset_and_code_score"].Value,
		DatasetAndCodeScoreLatency: latencySeconds(results["dataset_and_code_score"]),

		DatasetQuality:        results["dataset_quality"].Value,
		DatasetQualityLatency: latencySeconds(results["dataset_quality"]),

		CodeQuality:        results["code_quality"].Value,
		CodeQualityLatency: latencySeconds(results["code_quality"]),

		Reproducibility:        reproducibility(results),
		ReproducibilityLatency: 0.001,

		Reviewedness:        reviewedness(results),
		ReviewednessLatency: 0.001,

		TreeScore:        treeScore(results),
		TreeScoreLatency: 0.001,

		SizeScore:        sizeScoreFromResult(results["size_score"]),
		SizeScoreLatency: latencySeconds(results["size_score"]),
	}

	c.logger.Info("model rated",
		"name", info.Name,
		"category", rating.Category,
		"net_score", rating.NetScore,
		"duration_ms", netLatency.Milliseconds(),
	)

	return rating
}

// RateRepo evaluates the repository variant of the code quality metric.
func (c *Calculator) RateRepo(info *artifact.CodeInfo) artifact.MetricResult {
	return c.codeQuality.CalculateForRepo(info)
}

// runScorers fans the sub-scorers out over a bounded group, keyed results
// in an indexed slice so the output is independent of completion order. Each
// task recovers its own panics.
func (c *Calculator) runScorers(ctx context.Context, info *artifact.ModelInfo) map[string]artifact.MetricResult {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)

	out := make([]artifact.MetricResult, len(c.scorers))
	for i, s := range c.scorers {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("metric panicked",
						"metric", s.name,
						"model", info.Name,
						"panic", fmt.Sprint(r),
					)
					out[i] = artifact.MetricResult{
						Name:      s.name,
						Value:     0.5,
						LatencyMS: 0,
						Details:   map[string]any{"error": fmt.Sprint(r)},
					}
				}
			}()
			out[i] = s.fn(info)
			return nil
		})
	}
	g.Wait()

	results := make(map[string]artifact.MetricResult, len(out))
	for i, s := range c.scorers {
		results[s.name] = out[i]
	}
	return results
}

// netScore combines the weighted metrics, normalizing by the weights that
// are actually present so a missing metric redistributes rather than sinks
// the score.
func (c *Calculator) netScore(results map[string]artifact.MetricResult) float64 {
	var weightedSum, totalWeight float64
	for _, w := range netScoreWeights {
		if r, ok := results[w.name]; ok {
			weightedSum += r.Value * w.weight
			totalWeight += w.weight
		}
	}
	if totalWeight > 0 {
		return round4(weightedSum / totalWeight)
	}
	return 0.5
}

// determineCategory returns the explicit pipeline tag when present,
// otherwise infers a task category from the tags.
func (c *Calculator) determineCategory(info *artifact.ModelInfo) string {
	if info.PipelineTag != "" {
		return info.PipelineTag
	}

	tags := make([]string, len(info.Tags))
	for i, t := range info.Tags {
		tags[i] = strings.ToLower(t)
	}

	for _, entry := range categoryEntries {
		for _, tag := range tags {
			if containsAny(tag, entry.keywords) {
				return entry.category
			}
		}
	}

	return "unknown"
}

func reproducibility(results map[string]artifact.MetricResult) float64 {
	return round4(metricValue(results, "dataset_and_code_score")*0.4 +
		metricValue(results, "code_quality")*0.3 +
		metricValue(results, "ramp_up_time")*0.3)
}

func reviewedness(results map[string]artifact.MetricResult) float64 {
	return round4(metricValue(results, "bus_factor")*0.5 +
		metricValue(results, "performance_claims")*0.5)
}

func treeScore(results map[string]artifact.MetricResult) float64 {
	return round4(metricValue(results, "license")*0.6 +
		metricValue(results, "code_quality")*0.4)
}

func metricValue(results map[string]artifact.MetricResult, name string) float64 {
	if r, ok := results[name]; ok {
		return r.Value
	}
	return 0.5
}

func latencySeconds(r artifact.MetricResult) float64 {
	return float64(r.LatencyMS) / 1000
}

func sizeScoreFromResult(r artifact.MetricResult) artifact.SizeScore {
	if hw, ok := r.Details["hardware_scores"].(artifact.SizeScore); ok {
		return hw
	}
	return artifact.SizeScore{RaspberryPi: 0.5, JetsonNano: 0.5, DesktopPC: 0.5, AWSServer: 0.5}
}
