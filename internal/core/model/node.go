package model

// ExportNode is a graph node in an inspection export.
type ExportNode struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Position  int     `json:"position"`
	Community string  `json:"community,omitempty"`
}

// GraphExport is the built graph with final scores, for external rendering.
type GraphExport struct {
	Mode     string       `json:"mode"`
	Directed bool         `json:"directed"`
	Nodes    []ExportNode `json:"nodes"`
	Edges    []ExportEdge `json:"edges"`
	RunInfo
}
