package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/modeltrust/registry/internal/artifact"
	"github.com/modeltrust/registry/internal/resilience"
)

const (
	hfAPIBase     = "https://huggingface.co/api"
	hfRawBase     = "https://huggingface.co"
	githubAPIBase = "https://api.github.com"
)

// hfModelResponse mirrors the fields we consume from the model hosting API.
type hfModelResponse struct {
	Downloads    int64    `json:"downloads"`
	Likes        int64    `json:"likes"`
	LastModified string   `json:"lastModified"`
	Tags         []string `json:"tags"`
	PipelineTag  string   `json:"pipeline_tag"`
	LibraryName  string   `json:"library_name"`
	License      string   `json:"license"`
	CardData     struct {
		License    string          `json:"license"`
		Datasets   []string        `json:"datasets"`
		BaseModel  json.RawMessage `json:"base_model"` // string or array
		BaseModels []string        `json:"base_models"`
	} `json:"cardData"`
	ModelIndex []struct {
		Results []struct {
			Task struct {
				Type string `json:"type"`
			} `json:"task"`
			Dataset struct {
				Name string `json:"name"`
			} `json:"dataset"`
			Metrics []struct {
				Type  string  `json:"type"`
				Value float64 `json:"value"`
			} `json:"metrics"`
		} `json:"results"`
	} `json:"model-index"`
	Siblings []struct {
		RFilename string `json:"rfilename"`
		Size      int64  `json:"size"`
	} `json:"siblings"`
}

type hfDatasetResponse struct {
	Downloads int64    `json:"downloads"`
	Likes     int64    `json:"likes"`
	Tags      []string `json:"tags"`
	CardData  struct {
		License string `json:"license"`
	} `json:"cardData"`
	Size int64 `json:"size"`
}

type githubRepoResponse struct {
	StargazersCount int64  `json:"stargazers_count"`
	ForksCount      int64  `json:"forks_count"`
	Language        string `json:"language"`
	License         *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
	Size           int64  `json:"size"` // KB
	OpenIssuesCnt  int64  `json:"open_issues_count"`
	UpdatedAt      string `json:"updated_at"`
	DefaultBranch  string `json:"default_branch"`
	FullName       string `json:"full_name"`
	Description    string `json:"description"`
	ArchivedStatus bool   `json:"archived"`
}

// Resolver fetches artifact metadata from the hosting APIs and builds the
// normalized descriptors the engine scores.
type Resolver struct {
	client      *http.Client
	hfToken     string
	githubToken string
	retryCfg    resilience.RetryConfig
	logger      *slog.Logger

	// API bases, overridable in tests.
	hfAPI     string
	hfRaw     string
	githubAPI string
}

// New builds a Resolver with a pooled HTTP client.
func New(hfToken, githubToken string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Resolver{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		hfToken:     hfToken,
		githubToken: githubToken,
		retryCfg:    resilience.DefaultRetryConfig(),
		logger:      logger,
		hfAPI:       hfAPIBase,
		hfRaw:       hfRawBase,
		githubAPI:   githubAPIBase,
	}
}

// WithBaseURLs overrides the hosting API endpoints, for tests and
// self-hosted mirrors. Empty strings leave the default in place.
func (r *Resolver) WithBaseURLs(hfAPI, hfRaw, githubAPI string) *Resolver {
	if hfAPI != "" {
		r.hfAPI = hfAPI
	}
	if hfRaw != "" {
		r.hfRaw = hfRaw
	}
	if githubAPI != "" {
		r.githubAPI = githubAPI
	}
	return r
}

// ResolveModel fetches hosting metadata and the README for a model URL.
// API failures degrade to a minimal descriptor rather than an error; only an
// unparseable URL fails.
func (r *Resolver) ResolveModel(ctx context.Context, rawURL string) (*artifact.ModelInfo, error) {
	modelID, err := ModelID(rawURL)
	if err != nil {
		return nil, err
	}

	info := &artifact.ModelInfo{
		Name:    modelID,
		URL:     rawURL,
		License: "unknown",
	}

	var resp hfModelResponse
	if err := r.getJSON(ctx, fmt.Sprintf("%s/models/%s", r.hfAPI, modelID), r.hfToken, &resp); err != nil {
		r.logger.Warn("model metadata fetch failed, using minimal descriptor",
			"model", modelID, "error", err)
		return info, nil
	}

	info.Downloads = resp.Downloads
	info.Likes = resp.Likes
	info.LastModified = resp.LastModified
	info.Tags = resp.Tags
	info.PipelineTag = resp.PipelineTag
	info.LibraryName = resp.LibraryName
	info.License = resp.License
	if info.License == "" {
		info.License = resp.CardData.License
	}
	info.CardData = artifact.CardData{
		License:    resp.CardData.License,
		Datasets:   resp.CardData.Datasets,
		BaseModels: baseModels(resp.CardData.BaseModel, resp.CardData.BaseModels),
	}
	info.Benchmarks = benchmarks(resp)
	info.Files = files(resp)

	if readme, err := r.getText(ctx, fmt.Sprintf("%s/%s/raw/main/README.md", r.hfRaw, modelID)); err == nil {
		info.Readme = readme
	}

	return info, nil
}

// ResolveDataset fetches hosting metadata for a dataset URL.
func (r *Resolver) ResolveDataset(ctx context.Context, rawURL string) (*artifact.DatasetInfo, error) {
	datasetID, err := DatasetID(rawURL)
	if err != nil {
		return nil, err
	}

	info := &artifact.DatasetInfo{
		Name:    datasetID,
		URL:     rawURL,
		License: "unknown",
	}

	var resp hfDatasetResponse
	if err := r.getJSON(ctx, fmt.Sprintf("%s/datasets/%s", r.hfAPI, datasetID), r.hfToken, &resp); err != nil {
		r.logger.Warn("dataset metadata fetch failed, using minimal descriptor",
			"dataset", datasetID, "error", err)
		return info, nil
	}

	info.Downloads = resp.Downloads
	info.Likes = resp.Likes
	info.Tags = resp.Tags
	if resp.CardData.License != "" {
		info.License = resp.CardData.License
	}
	info.SizeBytes = resp.Size

	return info, nil
}

// ResolveCode fetches hosting metadata for a code repository URL.
func (r *Resolver) ResolveCode(ctx context.Context, rawURL string) (*artifact.CodeInfo, error) {
	owner, repo, err := RepoID(rawURL)
	if err != nil {
		return nil, err
	}

	info := &artifact.CodeInfo{
		Name:    owner + "/" + repo,
		URL:     rawURL,
		License: "unknown",
	}

	var resp githubRepoResponse
	if err := r.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s", r.githubAPI, owner, repo), r.githubToken, &resp); err != nil {
		r.logger.Warn("repo metadata fetch failed, using minimal descriptor",
			"repo", info.Name, "error", err)
		return info, nil
	}

	info.Stars = resp.StargazersCount
	info.Forks = resp.ForksCount
	info.Language = resp.Language
	if resp.License != nil && resp.License.SPDXID != "" {
		info.License = resp.License.SPDXID
	}
	info.SizeKB = resp.Size
	info.OpenIssues = resp.OpenIssuesCnt
	info.LastUpdated = resp.UpdatedAt

	return info, nil
}

func (r *Resolver) getJSON(ctx context.Context, url, token string, out any) error {
	resp, err := resilience.RetryHTTP(ctx, r.retryCfg, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return r.client.Do(req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resilience.NewHTTPError(resp.StatusCode, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *Resolver) getText(ctx context.Context, url string) (string, error) {
	resp, err := resilience.RetryHTTP(ctx, r.retryCfg, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		return r.client.Do(req)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resilience.NewHTTPError(resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// baseModels folds the hosting API's two base-model encodings (a bare string
// or an array) into one slice.
func baseModels(raw json.RawMessage, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

func benchmarks(resp hfModelResponse) []artifact.BenchmarkEntry {
	var entries []artifact.BenchmarkEntry
	for _, entry := range resp.ModelIndex {
		for _, result := range entry.Results {
			be := artifact.BenchmarkEntry{
				Task:    result.Task.Type,
				Dataset: result.Dataset.Name,
			}
			for _, m := range result.Metrics {
				be.Results = append(be.Results, artifact.BenchmarkResult{
					Metric: m.Type,
					Value:  m.Value,
				})
			}
			entries = append(entries, be)
		}
	}
	return entries
}

func files(resp hfModelResponse) []artifact.FileEntry {
	var out []artifact.FileEntry
	for _, s := range resp.Siblings {
		out = append(out, artifact.FileEntry{Name: s.RFilename, SizeBytes: s.Size})
	}
	return out
}
