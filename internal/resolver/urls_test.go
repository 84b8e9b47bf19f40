package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected URLKind
	}{
		{"model url", "https://huggingface.co/google/bert-base-uncased", KindModel},
		{"dataset url", "https://huggingface.co/datasets/squad", KindDataset},
		{"code url", "https://github.com/google-research/bert", KindCode},
		{"case insensitive", "https://HuggingFace.co/datasets/squad", KindDataset},
		{"unsupported host", "https://example.com/some/model", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.url))
		})
	}
}

func TestModelID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"org and model", "https://huggingface.co/google/bert-base-uncased", "google/bert-base-uncased"},
		{"bare model", "https://huggingface.co/gpt2", "gpt2"},
		{"trailing slash", "https://huggingface.co/google/bert/", "google/bert"},
		{"tree suffix dropped", "https://huggingface.co/google/bert/tree/main", "google/bert"},
		{"blob suffix dropped", "https://huggingface.co/google/bert/blob/main/README.md", "google/bert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ModelID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}

	_, err := ModelID("https://example.com/nope")
	var nr *ErrNotResolvable
	assert.ErrorAs(t, err, &nr)
}

func TestDatasetID(t *testing.T) {
	id, err := DatasetID("https://huggingface.co/datasets/squad")
	require.NoError(t, err)
	assert.Equal(t, "squad", id)

	id, err = DatasetID("https://huggingface.co/datasets/mozilla/common_voice")
	require.NoError(t, err)
	assert.Equal(t, "mozilla/common_voice", id)

	_, err = DatasetID("https://huggingface.co/google/bert")
	assert.Error(t, err)
}

func TestRepoID(t *testing.T) {
	owner, repo, err := RepoID("https://github.com/google-research/bert.git")
	require.NoError(t, err)
	assert.Equal(t, "google-research", owner)
	assert.Equal(t, "bert", repo)

	_, _, err = RepoID("https://github.com/orphan")
	assert.Error(t, err)
}

func TestNameFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"model keeps owner", "https://huggingface.co/Google/BERT", "google/bert"},
		{"dataset id", "https://huggingface.co/datasets/SQuAD", "squad"},
		{"code uses repo only", "https://github.com/google-research/BERT", "bert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := NameFromURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}

	_, err := NameFromURL("ftp://nowhere")
	assert.Error(t, err)
}
