package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Params holds a block's parameters. Values are primitives, except the custom
// convolution matrix which is a list of lists of numbers. A null value means
// the parameter is unset.
type Params map[string]cty.Value

// Clone returns a shallow copy; cty values are immutable.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

// Keys returns parameter names in sorted order.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Get returns the named value, or a dynamic null when absent.
func (p Params) Get(name string) cty.Value {
	if v, ok := p[name]; ok {
		return v
	}
	return cty.NullVal(cty.DynamicPseudoType)
}

// Equal reports whether both parameter sets hold the same keys and values.
func (p Params) Equal(o Params) bool {
	if len(p) != len(o) {
		return false
	}
	for k, v := range p {
		w, ok := o[k]
		if !ok {
			return false
		}
		if v.IsNull() || w.IsNull() {
			if v.IsNull() != w.IsNull() {
				return false
			}
			continue
		}
		if !v.Equals(w).True() {
			return false
		}
	}
	return true
}

// MarshalJSON encodes parameters as a flat JSON object.
func (p Params) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p))
	for k, v := range p {
		if v.IsNull() {
			out[k] = json.RawMessage("null")
			continue
		}
		if !v.IsWhollyKnown() {
			return nil, fmt.Errorf("parameter %q has an unknown value", k)
		}
		raw, err := ctyjson.Marshal(v, v.Type())
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		out[k] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a flat JSON object. Each value keeps the type implied
// by its JSON form; registry decoding converts it to the schema type later.
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Params, len(raw))
	for k, msg := range raw {
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			out[k] = cty.NullVal(cty.DynamicPseudoType)
			continue
		}
		ty, err := ctyjson.ImpliedType(msg)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", k, err)
		}
		v, err := ctyjson.Unmarshal(msg, ty)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", k, err)
		}
		out[k] = v
	}
	*p = out
	return nil
}
