package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModel(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/google/bert-base-uncased", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"downloads": 5000000,
			"likes": 3000,
			"lastModified": "2025-06-10T00:00:00.000Z",
			"tags": ["fill-mask", "license:apache-2.0"],
			"pipeline_tag": "fill-mask",
			"library_name": "transformers",
			"cardData": {"license": "apache-2.0", "datasets": ["wikipedia"], "base_model": "google/bert-large"},
			"model-index": [{"results": [{"task": {"type": "fill-mask"}, "dataset": {"name": "glue"}, "metrics": [{"type": "accuracy", "value": 0.92}]}]}],
			"siblings": [{"rfilename": "model.safetensors", "size": 440473133}]
		}`))
	}))
	defer api.Close()

	raw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/google/bert-base-uncased/raw/main/README.md", r.URL.Path)
		w.Write([]byte("# BERT\n"))
	}))
	defer raw.Close()

	res := New("", "", nil)
	res.hfAPI = api.URL
	res.hfRaw = raw.URL

	info, err := res.ResolveModel(context.Background(), "https://huggingface.co/google/bert-base-uncased")
	require.NoError(t, err)

	assert.Equal(t, "google/bert-base-uncased", info.Name)
	assert.Equal(t, int64(5_000_000), info.Downloads)
	assert.Equal(t, "apache-2.0", info.License)
	assert.Equal(t, []string{"wikipedia"}, info.CardData.Datasets)
	assert.Equal(t, []string{"google/bert-large"}, info.CardData.BaseModels)
	require.Len(t, info.Benchmarks, 1)
	assert.Equal(t, "glue", info.Benchmarks[0].Dataset)
	require.Len(t, info.Files, 1)
	assert.Equal(t, int64(440473133), info.Files[0].SizeBytes)
	assert.Equal(t, "# BERT\n", info.Readme)
}

func TestResolveModelAPIDownDegrades(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer api.Close()

	res := New("", "", nil)
	res.hfAPI = api.URL
	res.hfRaw = api.URL

	info, err := res.ResolveModel(context.Background(), "https://huggingface.co/org/ghost")
	require.NoError(t, err)
	assert.Equal(t, "org/ghost", info.Name)
	assert.Equal(t, "unknown", info.License)
	assert.Zero(t, info.Downloads)
}

func TestResolveModelBadURL(t *testing.T) {
	res := New("", "", nil)

	_, err := res.ResolveModel(context.Background(), "https://example.com/not-a-model")
	var nr *ErrNotResolvable
	assert.ErrorAs(t, err, &nr)
}

func TestResolveCode(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/google-research/bert", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"stargazers_count": 38000,
			"forks_count": 9500,
			"language": "Python",
			"license": {"spdx_id": "Apache-2.0"},
			"size": 47000,
			"open_issues_count": 770,
			"updated_at": "2025-05-01T12:00:00Z"
		}`))
	}))
	defer api.Close()

	res := New("", "", nil)
	res.githubAPI = api.URL

	info, err := res.ResolveCode(context.Background(), "https://github.com/google-research/bert")
	require.NoError(t, err)
	assert.Equal(t, "google-research/bert", info.Name)
	assert.Equal(t, int64(38_000), info.Stars)
	assert.Equal(t, "Apache-2.0", info.License)
	assert.Equal(t, int64(47_000*1024), info.SizeBytes())
}

func TestResolveDataset(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/squad", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"downloads": 900000, "likes": 450, "tags": ["question-answering"], "cardData": {"license": "cc-by-sa-4.0"}}`))
	}))
	defer api.Close()

	res := New("", "", nil)
	res.hfAPI = api.URL

	info, err := res.ResolveDataset(context.Background(), "https://huggingface.co/datasets/squad")
	require.NoError(t, err)
	assert.Equal(t, "squad", info.Name)
	assert.Equal(t, "cc-by-sa-4.0", info.License)
	assert.Equal(t, int64(900_000), info.Downloads)
}
