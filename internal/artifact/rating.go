package artifact

// MetricResult is the output of a single sub-scorer. Value is always clamped
// to [0,1]; construct results through NewMetricResult so callers never observe
// an out-of-range score even when a combination formula overshoots.
type MetricResult struct {
	Name      string         `json:"name"`
	Value     float64        `json:"value"`
	LatencyMS int64          `json:"latency_ms"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewMetricResult builds a MetricResult with the value clamped to [0,1] and
// the latency floored at zero.
func NewMetricResult(name string, value float64, latencyMS int64, details map[string]any) MetricResult {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	if latencyMS < 0 {
		latencyMS = 0
	}
	return MetricResult{Name: name, Value: value, LatencyMS: latencyMS, Details: details}
}

// SizeScore holds the per-hardware-target deployability scores.
type SizeScore struct {
	RaspberryPi float64 `json:"raspberry_pi"`
	JetsonNano  float64 `json:"jetson_nano"`
	DesktopPC   float64 `json:"desktop_pc"`
	AWSServer   float64 `json:"aws_server"`
}

// Rating is the complete evaluation output for one artifact. It is built
// fresh on every evaluation call; persistence and reuse of past ratings is
// the registry's concern, not the engine's. Latencies are in seconds.
type Rating struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	NetScore float64 `json:"net_score"`

	NetScoreLatency float64 `json:"net_score_latency"`

	License        float64 `json:"license"`
	LicenseLatency float64 `json:"license_latency"`

	RampUpTime        float64 `json:"ramp_up_time"`
	RampUpTimeLatency float64 `json:"ramp_up_time_latency"`

	BusFactor        float64 `json:"bus_factor"`
	BusFactorLatency float64 `json:"bus_factor_latency"`

	PerformanceClaims        float64 `json:"performance_claims"`
	PerformanceClaimsLatency float64 `json:"performance_claims_latency"`

	DatasetAndCodeScore        float64 `json:"dataset_and_code_score"`
	DatasetAndCodeScoreLatency float64 `json:"dataset_and_code_score_latency"`

	DatasetQuality        float64 `json:"dataset_quality"`
	DatasetQualityLatency float64 `json:"dataset_quality_latency"`

	CodeQuality        float64 `json:"code_quality"`
	CodeQualityLatency float64 `json:"code_quality_latency"`

	Reproducibility        float64 `json:"reproducibility"`
	ReproducibilityLatency float64 `json:"reproducibility_latency"`

	Reviewedness        float64 `json:"reviewedness"`
	ReviewednessLatency float64 `json:"reviewedness_latency"`

	TreeScore        float64 `json:"tree_score"`
	TreeScoreLatency float64 `json:"tree_score_latency"`

	SizeScore        SizeScore `json:"size_score"`
	SizeScoreLatency float64   `json:"size_score_latency"`
}

// IsZero reports whether the rating carries no computed scores. Stored
// ratings that are all-zero are treated as uninitialized placeholders and
// recomputed on the next rating request.
func (r *Rating) IsZero() bool {
	return r.NetScore == 0 && r.License == 0 && r.RampUpTime == 0 &&
		r.BusFactor == 0 && r.PerformanceClaims == 0 && r.DatasetAndCodeScore == 0 &&
		r.DatasetQuality == 0 && r.CodeQuality == 0
}
