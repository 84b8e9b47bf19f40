package artifact

// LineageNode is one artifact in a lineage graph.
type LineageNode struct {
	ArtifactID string         `json:"artifact_id"`
	Name       string         `json:"name"`
	Source     string         `json:"source"` // "registry", "config_json"
	Metadata   map[string]any `json:"metadata"`
}

// LineageEdge is a directed relationship between two lineage nodes.
type LineageEdge struct {
	FromNodeArtifactID string `json:"from_node_artifact_id"`
	ToNodeArtifactID   string `json:"to_node_artifact_id"`
	Relationship       string `json:"relationship"` // "base_model", "training_dataset"
}

// LineageGraph is the full provenance graph for one artifact.
type LineageGraph struct {
	Nodes []LineageNode `json:"nodes"`
	Edges []LineageEdge `json:"edges"`
}
