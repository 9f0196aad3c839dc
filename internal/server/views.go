package server

import (
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/registry"
)

// KindView describes a palette entry.
type KindView struct {
	Name     string      `json:"name"`
	Title    string      `json:"title"`
	Inputs   []string    `json:"inputs"`
	Outputs  []string    `json:"outputs"`
	Defaults node.Params `json:"defaults"`
}

// BlockView is the JSON form of a block.
type BlockView struct {
	ID      string      `json:"block_id"`
	Kind    string      `json:"block_type"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Params  node.Params `json:"parameters"`
	Inputs  []string    `json:"inputs"`
	Outputs []string    `json:"outputs"`
	Ready   bool        `json:"ready"`
	Width   int         `json:"width,omitempty"`
	Height  int         `json:"height,omitempty"`
}

// ConnectionView is the JSON form of a connection. Target fields are absent
// while the connection is pending.
type ConnectionView struct {
	ID          string        `json:"connection_id"`
	Source      node.PortRef  `json:"source"`
	Target      *node.PortRef `json:"target,omitempty"`
	SourceBlock string        `json:"source_block"`
	SourcePort  int           `json:"source_port"`
	TargetBlock *string       `json:"target_block,omitempty"`
	TargetPort  *int          `json:"target_port,omitempty"`
}

func kindView(k *registry.RegisteredKind) KindView {
	return KindView{
		Name:     k.Name,
		Title:    k.Title,
		Inputs:   nonNil(k.Inputs),
		Outputs:  nonNil(k.Outputs),
		Defaults: k.Defaults.Clone(),
	}
}

func blockView(b *node.Block) BlockView {
	v := BlockView{
		ID:      string(b.ID()),
		Kind:    b.Kind,
		X:       b.X,
		Y:       b.Y,
		Params:  b.Params.Clone(),
		Inputs:  portNames(b.Inputs()),
		Outputs: portNames(b.Outputs()),
		Ready:   b.Ready(),
	}
	if img := b.Image(); img != nil {
		v.Width, v.Height = img.Width(), img.Height()
	}
	return v
}

func connectionView(c *node.Connection) ConnectionView {
	v := ConnectionView{
		ID:          string(c.ID),
		Source:      c.Source,
		SourceBlock: string(c.Source.Block),
		SourcePort:  c.Source.Index,
	}
	if c.Target != nil {
		target := *c.Target
		block, port := string(target.Block), target.Index
		v.Target, v.TargetBlock, v.TargetPort = &target, &block, &port
	}
	return v
}

func portNames(ports []*node.Port) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
