package node

import "github.com/specialistvlad/rawgridgo/internal/pixel"

// Block is a typed processing vertex. Its port layout is fixed at creation.
type Block struct {
	id      BlockID
	Kind    string
	X, Y    float64
	Params  Params
	inputs  []*Port
	outputs []*Port
	image   *pixel.Image
}

// NewBlock creates a block with a fresh id, one input port per name in
// inputs and one output port per name in outputs.
func NewBlock(kind string, inputs, outputs []string, params Params) *Block {
	b := &Block{
		id:     NewBlockID(),
		Kind:   kind,
		Params: params.Clone(),
	}
	for i, name := range inputs {
		b.inputs = append(b.inputs, newPort(InputRef(b.id, i), name))
	}
	for i, name := range outputs {
		b.outputs = append(b.outputs, newPort(OutputRef(b.id, i), name))
	}
	return b
}

// ID returns the block's identifier.
func (b *Block) ID() BlockID {
	return b.id
}

// Inputs returns the input ports in index order.
func (b *Block) Inputs() []*Port {
	return b.inputs
}

// Outputs returns the output ports in index order.
func (b *Block) Outputs() []*Port {
	return b.outputs
}

// Ports returns the ports for one direction.
func (b *Block) Ports(d Direction) []*Port {
	if d == Input {
		return b.inputs
	}
	return b.outputs
}

// Port returns the port at index i in direction d.
func (b *Block) Port(d Direction, i int) (*Port, bool) {
	ports := b.Ports(d)
	if i < 0 || i >= len(ports) {
		return nil, false
	}
	return ports[i], true
}

// Image returns the cached output image, or nil if the block has never been
// processed successfully.
func (b *Block) Image() *pixel.Image {
	return b.image
}

// SetImage replaces the cached output image.
func (b *Block) SetImage(img *pixel.Image) {
	b.image = img
}

// Ready reports whether the block holds an image.
func (b *Block) Ready() bool {
	return b.image != nil
}
