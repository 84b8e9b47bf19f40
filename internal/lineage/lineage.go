package lineage

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/modeltrust/registry/internal/artifact"
)

// maxParents caps the lineage extracted for one artifact.
const maxParents = 10

// datasetKeywords mark a parent name as training data rather than a base
// model.
var datasetKeywords = []string{
	"squad", "glue", "imagenet", "coco", "wikipedia",
	"bookcorpus", "c4", "pile", "openwebtext", "dataset",
}

// ParentsFromModel extracts the parent artifact names a model descriptor
// declares: base models and linked datasets from the card metadata, plus
// base_model:/dataset: tags. Order is deterministic; duplicates are dropped;
// the list is capped.
func ParentsFromModel(info *artifact.ModelInfo) []string {
	var parents []string
	seen := map[string]bool{}

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] || len(parents) >= maxParents {
			return
		}
		seen[name] = true
		parents = append(parents, name)
	}

	for _, bm := range info.CardData.BaseModels {
		add(bm)
	}

	datasets := info.CardData.Datasets
	if len(datasets) > 3 {
		datasets = datasets[:3]
	}
	for _, ds := range datasets {
		add(ds)
	}

	for _, tag := range info.Tags {
		if rest, ok := strings.CutPrefix(tag, "base_model:"); ok {
			add(rest)
		} else if rest, ok := strings.CutPrefix(tag, "dataset:"); ok {
			add(rest)
		}
	}

	return parents
}

// ParentID derives a stable 10-digit identifier for a parent that is not
// itself registered.
func ParentID(name string) string {
	h := fnv.New64a()
	h.Write([]byte(name))
	return strconv.FormatUint(h.Sum64()%10_000_000_000, 10)
}

// Relationship classifies how a parent relates to its child: names that look
// like corpora are training data, everything else is a base model.
func Relationship(parentName string) string {
	lower := strings.ToLower(parentName)
	for _, kw := range datasetKeywords {
		if strings.Contains(lower, kw) {
			return "training_dataset"
		}
	}
	return "base_model"
}

// BuildGraph assembles the provenance graph for one registered artifact and
// its declared parents. The artifact itself is always the first node.
func BuildGraph(artifactID, name, url string, parents []string) artifact.LineageGraph {
	graph := artifact.LineageGraph{
		Nodes: []artifact.LineageNode{{
			ArtifactID: artifactID,
			Name:       name,
			Source:     "registry",
			Metadata:   map[string]any{"url": url, "type": "model"},
		}},
		Edges: []artifact.LineageEdge{},
	}

	for _, parent := range parents {
		parentID := ParentID(parent)
		graph.Nodes = append(graph.Nodes, artifact.LineageNode{
			ArtifactID: parentID,
			Name:       parent,
			Source:     "config_json",
			Metadata:   map[string]any{},
		})
		graph.Edges = append(graph.Edges, artifact.LineageEdge{
			FromNodeArtifactID: parentID,
			ToNodeArtifactID:   artifactID,
			Relationship:       Relationship(parent),
		})
	}

	return graph
}
