package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type gainParams struct {
	Gain  int     `cty:"gain" validate:"gte=0,lte=10"`
	Label *string `cty:"label"`
}

func gain(_ context.Context, inputs []*pixel.Image, p *gainParams) (*pixel.Image, error) {
	in, err := Input(inputs, 0)
	if err != nil {
		return nil, err
	}
	return pixel.Brightness(in, p.Gain), nil
}

func gainKind() *RegisteredKind {
	return &RegisteredKind{
		Name:    "gain",
		Title:   "Gain",
		Inputs:  []string{"Input"},
		Outputs: []string{"Output"},
		Schema: map[string]cty.Type{
			"gain":  cty.Number,
			"label": cty.String,
		},
		Defaults:  node.Params{"gain": cty.NumberIntVal(2)},
		NewParams: func() any { return new(gainParams) },
		Fn:        Typed(gain),
	}
}

func TestRegisterKind(t *testing.T) {
	r := New()
	r.RegisterKind(gainKind())
	r.RegisterKind(&RegisteredKind{Name: "sink", Inputs: []string{"Input"}, NewParams: NewNoParams, Fn: Typed(func(context.Context, []*pixel.Image, *NoParams) (*pixel.Image, error) { return nil, nil })})

	assert.Equal(t, []string{"gain", "sink"}, r.Names())
	k, ok := r.Kind("gain")
	require.True(t, ok)
	assert.Equal(t, "Gain", k.Title)
	assert.Len(t, r.Kinds(), 2)

	assert.Panics(t, func() { r.RegisterKind(gainKind()) })
	require.NoError(t, r.ValidateRegistry(context.Background()))
}

func TestNewBlock(t *testing.T) {
	r := New()
	r.RegisterKind(gainKind())

	b, err := r.NewBlock("gain", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "gain", b.Kind)
	assert.Equal(t, 10.0, b.X)
	assert.Equal(t, 20.0, b.Y)
	assert.Len(t, b.Inputs(), 1)
	assert.Len(t, b.Outputs(), 1)
	assert.Nil(t, b.Image())
	assert.True(t, b.Params.Equal(node.Params{
		"gain":  cty.NumberIntVal(2),
		"label": cty.NullVal(cty.String),
	}))

	_, err = r.NewBlock("nope", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDecodeParams(t *testing.T) {
	r := New()
	k := gainKind()
	r.RegisterKind(k)

	got, err := r.DecodeParams(k, node.Params{"label": cty.StringVal("x")})
	require.NoError(t, err)
	p := got.(*gainParams)
	assert.Equal(t, 2, p.Gain)
	require.NotNil(t, p.Label)
	assert.Equal(t, "x", *p.Label)

	// Strings convert to numbers the way documents written by hand expect.
	got, err = r.DecodeParams(k, node.Params{"gain": cty.StringVal("7")})
	require.NoError(t, err)
	assert.Equal(t, 7, got.(*gainParams).Gain)

	invalid := map[string]node.Params{
		"out of range":  {"gain": cty.NumberIntVal(11)},
		"not a number":  {"gain": cty.StringVal("lots")},
		"fractional":    {"gain": cty.NumberFloatVal(1.5)},
		"wrong type":    {"label": cty.ListValEmpty(cty.String)},
		"unknown param": {"volume": cty.NumberIntVal(1)},
	}
	for name, params := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := r.DecodeParams(k, params)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestUnknown(t *testing.T) {
	k := gainKind()
	assert.Equal(t, []string{"a", "b"}, Unknown(k, node.Params{"b": cty.True, "gain": cty.True, "a": cty.True}))
	assert.Empty(t, Unknown(k, nil))
}

func TestTyped(t *testing.T) {
	fn := Typed(gain)
	out, err := fn(context.Background(), []*pixel.Image{pixel.Uniform(1, 1, 1)}, &gainParams{Gain: 3})
	require.NoError(t, err)
	assert.Equal(t, uint8(4), out.At(0, 0))

	_, err = fn(context.Background(), []*pixel.Image{nil}, &gainParams{})
	assert.ErrorIs(t, err, ErrInputNotReady)

	_, err = fn(context.Background(), nil, &NoParams{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestValidateRegistry_Mismatches(t *testing.T) {
	cases := map[string]struct {
		mutate func(k *RegisteredKind)
		want   string
	}{
		"missing field": {
			mutate: func(k *RegisteredKind) { k.Schema["extra"] = cty.Bool },
			want:   "schema declares parameter 'extra' which is not found in Go struct",
		},
		"missing schema": {
			mutate: func(k *RegisteredKind) { delete(k.Schema, "label") },
			want:   "Go struct has field for parameter 'label' which is not declared in schema",
		},
		"type mismatch": {
			mutate: func(k *RegisteredKind) { k.Schema["gain"] = cty.String },
			want:   "type mismatch",
		},
		"bad default": {
			mutate: func(k *RegisteredKind) { k.Defaults["gain"] = cty.NumberIntVal(99) },
			want:   "defaults do not decode",
		},
		"undeclared default": {
			mutate: func(k *RegisteredKind) { k.Defaults["volume"] = cty.NumberIntVal(1) },
			want:   "default given for undeclared parameter 'volume'",
		},
		"not a struct pointer": {
			mutate: func(k *RegisteredKind) { k.NewParams = func() any { return gainParams{} } },
			want:   "NewParams must return a pointer to a struct",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := New()
			k := gainKind()
			tc.mutate(k)
			r.RegisterKind(k)

			err := r.ValidateRegistry(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
