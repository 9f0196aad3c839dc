package config

import "github.com/specialistvlad/rawgridgo/internal/node"

// Document is the persisted form of a graph: blocks first, then the
// connections between their ports.
type Document struct {
	Blocks      []BlockSpec      `json:"blocks"`
	Connections []ConnectionSpec `json:"connections"`
}

// BlockSpec is one saved block. ID is only meaningful within the document;
// restoring assigns fresh runtime ids.
type BlockSpec struct {
	ID     string      `json:"block_id"`
	Kind   string      `json:"block_type"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Params node.Params `json:"parameters"`
}

// ConnectionSpec is one saved connection, by block id and port index.
type ConnectionSpec struct {
	SourceBlock string `json:"source_block"`
	SourcePort  int    `json:"source_port"`
	TargetBlock string `json:"target_block"`
	TargetPort  int    `json:"target_port"`
}
