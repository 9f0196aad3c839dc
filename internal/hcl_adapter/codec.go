// Package hcl_adapter reads and writes workflow documents in HCL:
//
//	block "load" "b1" {
//	  x = 10
//	  y = 20
//	  parameters = {
//	    file_path = "input.raw"
//	    width     = 256
//	    height    = 256
//	  }
//	}
//
//	connection {
//	  source_block = "b1"
//	  source_port  = 0
//	  target_block = "b2"
//	  target_port  = 0
//	}
package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/rawgridgo/internal/config"
	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Codec is the HCL implementation of config.Codec.
type Codec struct{}

// New creates an HCL codec.
func New() *Codec {
	return &Codec{}
}

// fileRoot is a struct used to decode all top-level blocks of a workflow file.
type fileRoot struct {
	Blocks      []*blockDef      `hcl:"block,block"`
	Connections []*connectionDef `hcl:"connection,block"`
}

type blockDef struct {
	Kind       string    `hcl:"kind,label"`
	ID         string    `hcl:"id,label"`
	X          float64   `hcl:"x,optional"`
	Y          float64   `hcl:"y,optional"`
	Parameters cty.Value `hcl:"parameters,optional"`
}

type connectionDef struct {
	SourceBlock string `hcl:"source_block"`
	SourcePort  int    `hcl:"source_port"`
	TargetBlock string `hcl:"target_block"`
	TargetPort  int    `hcl:"target_port"`
}

// Extensions implements config.Codec.
func (c *Codec) Extensions() []string {
	return []string{".hcl"}
}

// Decode implements config.Codec.
func (c *Codec) Decode(ctx context.Context, filename string, src []byte) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL workflow %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL workflow %s: %w", filename, diags)
	}

	doc := &config.Document{}
	for _, b := range root.Blocks {
		params, err := paramsFromValue(b.Parameters)
		if err != nil {
			return nil, fmt.Errorf("block %q in %s: %w", b.ID, filename, err)
		}
		doc.Blocks = append(doc.Blocks, config.BlockSpec{
			ID:     b.ID,
			Kind:   b.Kind,
			X:      b.X,
			Y:      b.Y,
			Params: params,
		})
	}
	for _, conn := range root.Connections {
		doc.Connections = append(doc.Connections, config.ConnectionSpec(*conn))
	}

	logger.Debug("Decoded HCL workflow.", "file", filename, "blocks", len(doc.Blocks), "connections", len(doc.Connections))
	return doc, nil
}

// paramsFromValue flattens the parameters object into node.Params.
func paramsFromValue(v cty.Value) (node.Params, error) {
	params := node.Params{}
	if v.IsNull() {
		return params, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("parameters must be an object, got %s", ty.FriendlyName())
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("parameters must be known values")
	}
	for it := v.ElementIterator(); it.Next(); {
		k, val := it.Element()
		params[k.AsString()] = val
	}
	return params, nil
}

// Encode implements config.Codec.
func (c *Codec) Encode(_ context.Context, doc *config.Document) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for i, b := range doc.Blocks {
		if i > 0 {
			body.AppendNewline()
		}
		bb := body.AppendNewBlock("block", []string{b.Kind, b.ID}).Body()
		bb.SetAttributeValue("x", cty.NumberFloatVal(b.X))
		bb.SetAttributeValue("y", cty.NumberFloatVal(b.Y))
		if len(b.Params) > 0 {
			attrs := make(map[string]cty.Value, len(b.Params))
			for k, v := range b.Params {
				if !v.IsWhollyKnown() {
					return nil, fmt.Errorf("block %q: parameter %q has an unknown value", b.ID, k)
				}
				attrs[k] = v
			}
			bb.SetAttributeValue("parameters", cty.ObjectVal(attrs))
		}
	}

	for _, conn := range doc.Connections {
		body.AppendNewline()
		cb := body.AppendNewBlock("connection", nil).Body()
		cb.SetAttributeValue("source_block", cty.StringVal(conn.SourceBlock))
		cb.SetAttributeValue("source_port", cty.NumberIntVal(int64(conn.SourcePort)))
		cb.SetAttributeValue("target_block", cty.StringVal(conn.TargetBlock))
		cb.SetAttributeValue("target_port", cty.NumberIntVal(int64(conn.TargetPort)))
	}

	return hclwrite.Format(f.Bytes()), nil
}
