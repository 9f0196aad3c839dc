package node

import (
	"fmt"
	"regexp"
	"strconv"
)

// portRefRegex matches the String form of a PortRef, e.g. `b1.output[2]`.
var portRefRegex = regexp.MustCompile(`^(.+)\.(input|output)\[(\d+)\]$`)

// ParsePortRef is the inverse of PortRef.String.
func ParsePortRef(s string) (PortRef, error) {
	if s == "" {
		return PortRef{}, fmt.Errorf("port reference cannot be empty")
	}
	m := portRefRegex.FindStringSubmatch(s)
	if m == nil {
		return PortRef{}, fmt.Errorf("invalid port reference %q, want BLOCK.input[N] or BLOCK.output[N]", s)
	}
	index, err := strconv.Atoi(m[3])
	if err != nil {
		return PortRef{}, fmt.Errorf("invalid port index in %q: %w", s, err)
	}
	ref := PortRef{Block: BlockID(m[1]), Index: index, Direction: Input}
	if m[2] == "output" {
		ref.Direction = Output
	}
	return ref, nil
}

// MarshalText implements encoding.TextMarshaler.
func (r PortRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *PortRef) UnmarshalText(text []byte) error {
	ref, err := ParsePortRef(string(text))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}
