// Package jsonadapter reads and writes workflow documents as JSON.
package jsonadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/rawgridgo/internal/config"
	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
)

// Codec is the JSON implementation of config.Codec.
type Codec struct{}

// New creates a JSON codec.
func New() *Codec {
	return &Codec{}
}

// Extensions implements config.Codec.
func (c *Codec) Extensions() []string {
	return []string{".json"}
}

// Decode implements config.Codec.
func (c *Codec) Decode(ctx context.Context, filename string, src []byte) (*config.Document, error) {
	var doc config.Document
	if err := json.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON workflow %s: %w", filename, err)
	}
	ctxlog.FromContext(ctx).Debug("Decoded JSON workflow.", "file", filename, "blocks", len(doc.Blocks), "connections", len(doc.Connections))
	return &doc, nil
}

// Encode implements config.Codec.
func (c *Codec) Encode(_ context.Context, doc *config.Document) ([]byte, error) {
	out := *doc
	if out.Blocks == nil {
		out.Blocks = []config.BlockSpec{}
	}
	if out.Connections == nil {
		out.Connections = []config.ConnectionSpec{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON workflow: %w", err)
	}
	return append(data, '\n'), nil
}
