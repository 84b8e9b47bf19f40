package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modeltrust/registry/internal/artifact"
)

func passingRating() artifact.Rating {
	return artifact.Rating{
		NetScore:            0.8,
		License:             0.9,
		RampUpTime:          0.7,
		BusFactor:           0.6,
		PerformanceClaims:   0.75,
		DatasetAndCodeScore: 0.8,
		DatasetQuality:      0.7,
		CodeQuality:         0.65,
		Reproducibility:     0.75,
		Reviewedness:        0.68,
		TreeScore:           0.8,
		SizeScore:           artifact.SizeScore{RaspberryPi: 0.5, JetsonNano: 0.9, DesktopPC: 1.0, AWSServer: 1.0},
	}
}

func TestPassesThreshold(t *testing.T) {
	r := passingRating()
	assert.True(t, PassesThreshold(&r, DefaultIngestThreshold))

	// Exactly at the threshold still passes.
	r.BusFactor = 0.5
	assert.True(t, PassesThreshold(&r, DefaultIngestThreshold))
}

func TestPassesThresholdAnyGatedFieldFails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*artifact.Rating)
	}{
		{"net score", func(r *artifact.Rating) { r.NetScore = 0.49 }},
		{"primary metric", func(r *artifact.Rating) { r.DatasetQuality = 0.4 }},
		{"derived metric", func(r *artifact.Rating) { r.TreeScore = 0.3 }},
		{"hardware tier", func(r *artifact.Rating) { r.SizeScore.RaspberryPi = 0.2 }},
		{"nan fails closed", func(r *artifact.Rating) { r.Reviewedness = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := passingRating()
			tt.mutate(&r)
			assert.False(t, PassesThreshold(&r, DefaultIngestThreshold))
		})
	}
}

func TestPassesThresholdCustom(t *testing.T) {
	r := passingRating()
	assert.False(t, PassesThreshold(&r, 0.9))
	assert.True(t, PassesThreshold(&r, 0.0))
}
