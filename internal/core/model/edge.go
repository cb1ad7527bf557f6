package model

// ExportEdge is a weighted edge in an inspection export. Undirected graphs
// list every pair once.
type ExportEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}
