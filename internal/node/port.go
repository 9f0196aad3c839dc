package node

import "slices"

// Port is a named attachment point on a block.
type Port struct {
	ref   PortRef
	Name  string
	conns []ConnectionID
}

func newPort(ref PortRef, name string) *Port {
	return &Port{ref: ref, Name: name}
}

// Ref returns the port's address.
func (p *Port) Ref() PortRef {
	return p.ref
}

// Connections returns the ids of incident connections in attach order.
func (p *Port) Connections() []ConnectionID {
	return slices.Clone(p.conns)
}

// Attach records an incident connection.
func (p *Port) Attach(id ConnectionID) {
	p.conns = append(p.conns, id)
}

// Detach forgets an incident connection and reports whether it was attached.
func (p *Port) Detach(id ConnectionID) bool {
	i := slices.Index(p.conns, id)
	if i < 0 {
		return false
	}
	p.conns = slices.Delete(p.conns, i, i+1)
	return true
}
