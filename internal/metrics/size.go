package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/modeltrust/registry/internal/artifact"
)

const (
	mib = 1 << 20
	gib = 1 << 30
)

// hardwareTarget is one deployment tier with a fixed memory ceiling.
type hardwareTarget struct {
	name  string
	limit int64
}

// sizePattern maps a model-name substring to a canonical size estimate.
// Order matters: parameter-count patterns are checked before the generic
// tier names so "llama-7b-base" estimates as a 7B model, not a base model.
type sizePattern struct {
	pattern string
	bytes   int64
}

// SizeMetric scores how well a model fits each hardware tier, from a
// 1 GiB edge device up to a 64 GiB server.
type SizeMetric struct {
	targets  []hardwareTarget
	patterns []sizePattern
}

// NewSizeMetric builds the metric with its immutable hardware and
// name-pattern tables.
func NewSizeMetric() *SizeMetric {
	return &SizeMetric{
		targets: []hardwareTarget{
			{"raspberry_pi", 1 * gib},
			{"jetson_nano", 4 * gib},
			{"desktop_pc", 16 * gib},
			{"aws_server", 64 * gib},
		},
		patterns: []sizePattern{
			{"7b", 13 * gib},
			{"13b", 26 * gib},
			{"30b", 60 * gib},
			{"65b", 130 * gib},
			{"70b", 140 * gib},
			{"tiny", 100 * mib},
			{"small", 500 * mib},
			{"base", 500 * mib},
			{"medium", 3 * gib / 2},
			{"large", 3 * gib},
			{"xl", 6 * gib},
			{"xxl", 12 * gib},
		},
	}
}

// Calculate estimates the model's size and scores it against every hardware
// target. The scalar value is the unweighted mean of the four tier scores;
// the per-tier scores are carried in details for external exposure.
func (m *SizeMetric) Calculate(info *artifact.ModelInfo) artifact.MetricResult {
	start := time.Now()

	sizeBytes := m.estimateSize(info)

	var score artifact.SizeScore
	var sum float64
	for _, hw := range m.targets {
		s := hardwareScore(sizeBytes, hw.limit)
		sum += s
		switch hw.name {
		case "raspberry_pi":
			score.RaspberryPi = s
		case "jetson_nano":
			score.JetsonNano = s
		case "desktop_pc":
			score.DesktopPC = s
		case "aws_server":
			score.AWSServer = s
		}
	}

	return artifact.NewMetricResult("size_score", sum/float64(len(m.targets)), time.Since(start).Milliseconds(), map[string]any{
		"estimated_size_bytes": sizeBytes,
		"estimated_size_gb":    math.Round(float64(sizeBytes)/float64(gib)*100) / 100,
		"hardware_scores":      score,
	})
}

// estimateSize resolves a size estimate through the fallback chain:
// manifest total, name-pattern table, architecture heuristics, popularity
// tiers, and finally a conservative 2 GiB default.
func (m *SizeMetric) estimateSize(info *artifact.ModelInfo) int64 {
	if total := info.TotalSizeBytes(); total > 0 {
		return total
	}

	name := strings.ToLower(info.Name)
	for _, p := range m.patterns {
		if strings.Contains(name, p.pattern) {
			return p.bytes
		}
	}

	library := strings.ToLower(info.LibraryName)
	switch {
	case strings.Contains(library, "sentence-transformer") || strings.Contains(name, "sentence-transformer"):
		return 500 * mib
	case strings.Contains(name, "bert"):
		return 500 * mib
	case strings.Contains(name, "gpt2") && !strings.Contains(name, "xl"):
		return 600 * mib
	case strings.Contains(name, "whisper"):
		switch {
		case strings.Contains(name, "tiny"):
			return 150 * mib
		case strings.Contains(name, "small"):
			return 500 * mib
		case strings.Contains(name, "medium"):
			return 3 * gib / 2
		case strings.Contains(name, "large"):
			return 3 * gib
		}
		return 500 * mib
	}

	// Popular models tend to be the smaller, efficient ones.
	switch {
	case info.Downloads > 1_000_000:
		return 500 * mib
	case info.Downloads > 100_000:
		return 1 * gib
	case info.Downloads > 10_000:
		return 2 * gib
	}

	return 2 * gib
}

// hardwareScore rates a size estimate against one memory ceiling. Each
// bracket is inclusive on its upper bound, so an estimate exactly at the
// limit (ratio 1.0) scores 0.5.
func hardwareScore(sizeBytes, limitBytes int64) float64 {
	if sizeBytes <= 0 {
		return 1.0
	}

	ratio := float64(sizeBytes) / float64(limitBytes)
	switch {
	case ratio <= 0.25:
		return 1.0
	case ratio <= 0.5:
		return 0.9
	case ratio <= 0.75:
		return 0.7
	case ratio <= 1.0:
		return 0.5
	case ratio <= 1.5:
		return 0.2
	default:
		return 0.0
	}
}
