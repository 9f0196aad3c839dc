package registry

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Normalize returns params restricted to the kind's schema: each declared
// parameter is converted to its schema type, and missing ones take the
// kind's default (or null). Undeclared keys are an error; see Unknown.
func (r *Registry) Normalize(k *RegisteredKind, params node.Params) (node.Params, error) {
	if unknown := Unknown(k, params); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: kind %q has no parameters %v", ErrInvalidParams, k.Name, unknown)
	}
	out := make(node.Params, len(k.Schema))
	for name, ty := range k.Schema {
		v, ok := params[name]
		if !ok {
			v, ok = k.Defaults[name]
		}
		if !ok || v.IsNull() {
			out[name] = cty.NullVal(ty)
			continue
		}
		conv, err := convert.Convert(v, ty)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidParams, k.Name, name, err)
		}
		out[name] = conv
	}
	return out, nil
}

// Unknown lists the keys of params that the kind does not declare, sorted.
func Unknown(k *RegisteredKind, params node.Params) []string {
	var out []string
	for name := range params {
		if _, ok := k.Schema[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// DecodeParams normalizes params and decodes them into the kind's parameter
// struct, then runs its validation tags.
func (r *Registry) DecodeParams(k *RegisteredKind, params node.Params) (any, error) {
	norm, err := r.Normalize(k, params)
	if err != nil {
		return nil, err
	}
	target := k.NewParams()
	obj := cty.EmptyObjectVal
	if len(norm) > 0 {
		obj = cty.ObjectVal(norm)
	}
	if err := gocty.FromCtyValue(obj, target); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParams, k.Name, err)
	}
	if err := r.validate.Struct(target); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParams, k.Name, err)
	}
	return target, nil
}
