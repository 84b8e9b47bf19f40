package metrics

import "github.com/modeltrust/registry/internal/artifact"

// DefaultIngestThreshold is the minimum score every gated metric must reach
// for an artifact to be accepted into the registry.
const DefaultIngestThreshold = 0.5

// PassesThreshold reports whether every gated score in the rating reaches
// the threshold: the net score, all primary and derived metrics, and each of
// the four hardware size scores. Latencies are never gated. The comparison
// is written so NaN fails closed.
func PassesThreshold(r *artifact.Rating, threshold float64) bool {
	gated := []float64{
		r.NetScore,
		r.RampUpTime,
		r.BusFactor,
		r.PerformanceClaims,
		r.License,
		r.DatasetAndCodeScore,
		r.DatasetQuality,
		r.CodeQuality,
		r.Reproducibility,
		r.Reviewedness,
		r.TreeScore,
		r.SizeScore.RaspberryPi,
		r.SizeScore.JetsonNano,
		r.SizeScore.DesktopPC,
		r.SizeScore.AWSServer,
	}
	for _, v := range gated {
		if !(v >= threshold) {
			return false
		}
	}
	return true
}
