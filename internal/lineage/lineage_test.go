package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modeltrust/registry/internal/artifact"
)

func TestParentsFromModel(t *testing.T) {
	info := artifact.ModelInfo{
		CardData: artifact.CardData{
			BaseModels: []string{"google/bert-large"},
			Datasets:   []string{"wikipedia", "bookcorpus", "c4", "openwebtext"},
		},
		Tags: []string{
			"base_model:google/bert-large", // duplicate of card entry
			"dataset:squad",
			"transformers",
		},
	}

	parents := ParentsFromModel(&info)

	// Card datasets are capped at three; duplicates collapse.
	assert.Equal(t, []string{"google/bert-large", "wikipedia", "bookcorpus", "c4", "squad"}, parents)
}

func TestParentsFromModelEmpty(t *testing.T) {
	assert.Empty(t, ParentsFromModel(&artifact.ModelInfo{}))
}

func TestParentsFromModelCap(t *testing.T) {
	info := artifact.ModelInfo{}
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		info.CardData.BaseModels = append(info.CardData.BaseModels, "org/"+s)
	}

	assert.Len(t, ParentsFromModel(&info), 10)
}

func TestParentIDStable(t *testing.T) {
	id := ParentID("google/bert-large")
	assert.Equal(t, id, ParentID("google/bert-large"))
	assert.NotEqual(t, id, ParentID("google/bert-base"))
	assert.LessOrEqual(t, len(id), 10)
}

func TestRelationship(t *testing.T) {
	tests := []struct {
		name     string
		parent   string
		expected string
	}{
		{"corpus name", "wikipedia", "training_dataset"},
		{"dataset suffix", "my-training-dataset", "training_dataset"},
		{"model name", "google/bert-large", "base_model"},
		{"case insensitive", "SQuAD", "training_dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Relationship(tt.parent))
		})
	}
}

func TestBuildGraph(t *testing.T) {
	graph := BuildGraph("1000000001", "org/model", "https://huggingface.co/org/model",
		[]string{"google/bert-large", "wikipedia"})

	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, "1000000001", graph.Nodes[0].ArtifactID)
	assert.Equal(t, "registry", graph.Nodes[0].Source)
	assert.Equal(t, "config_json", graph.Nodes[1].Source)

	require.Len(t, graph.Edges, 2)
	assert.Equal(t, "1000000001", graph.Edges[0].ToNodeArtifactID)
	assert.Equal(t, "base_model", graph.Edges[0].Relationship)
	assert.Equal(t, "training_dataset", graph.Edges[1].Relationship)
}

func TestBuildGraphNoParents(t *testing.T) {
	graph := BuildGraph("1000000001", "org/model", "u", nil)

	assert.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Edges)
}
