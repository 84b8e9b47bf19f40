package artifact

// CardData holds the structured metadata block attached to a hosted model
// (license declaration, linked training datasets, base model references).
type CardData struct {
	License    string   `json:"license,omitempty"`
	Datasets   []string `json:"datasets,omitempty"`
	BaseModels []string `json:"base_models,omitempty"`
}

// BenchmarkResult is a single metric/value pair inside a benchmark entry.
type BenchmarkResult struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// BenchmarkEntry is one structured evaluation record (a model-index entry).
type BenchmarkEntry struct {
	Task    string            `json:"task,omitempty"`
	Dataset string            `json:"dataset,omitempty"`
	Results []BenchmarkResult `json:"results"`
}

// FileEntry is one file in an artifact's manifest.
type FileEntry struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

// ModelInfo is the normalized description of a hosted model. It is the sole
// input to metric scoring: all network fetches happen before it is built, and
// it is treated as immutable for the duration of an evaluation.
type ModelInfo struct {
	Name         string           `json:"name"` // "google/bert-base-uncased"
	URL          string           `json:"url"`
	Downloads    int64            `json:"downloads"`
	Likes        int64            `json:"likes"`
	LastModified string           `json:"last_modified"` // ISO-8601 or empty
	Tags         []string         `json:"tags"`
	PipelineTag  string           `json:"pipeline_tag"` // "text-classification", etc.
	LibraryName  string           `json:"library_name"` // "transformers", "pytorch", etc.
	License      string           `json:"license"`
	Readme       string           `json:"readme"`
	CardData     CardData         `json:"card_data"`
	Benchmarks   []BenchmarkEntry `json:"benchmarks"`
	Files        []FileEntry      `json:"files"`
}

// TotalSizeBytes sums the file manifest. Returns 0 for an empty manifest,
// which triggers the size-estimation fallback chain.
func (m *ModelInfo) TotalSizeBytes() int64 {
	var total int64
	for _, f := range m.Files {
		total += f.SizeBytes
	}
	return total
}

// DatasetInfo is the normalized description of a hosted dataset.
type DatasetInfo struct {
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Downloads int64    `json:"downloads"`
	Likes     int64    `json:"likes"`
	Tags      []string `json:"tags"`
	License   string   `json:"license"`
	Readme    string   `json:"readme"`
	SizeBytes int64    `json:"size_bytes"`
}

// CodeInfo is the normalized description of a code repository.
type CodeInfo struct {
	Name        string `json:"name"` // "owner/repo"
	URL         string `json:"url"`
	Stars       int64  `json:"stars"`
	Forks       int64  `json:"forks"`
	Language    string `json:"language"`
	License     string `json:"license"`
	SizeKB      int64  `json:"size_kb"` // the hosting API reports size in KB
	OpenIssues  int64  `json:"open_issues"`
	LastUpdated string `json:"last_updated"`
	Readme      string `json:"readme"`
}

// SizeBytes converts the KB-denominated repository size.
func (c *CodeInfo) SizeBytes() int64 {
	return c.SizeKB * 1024
}
