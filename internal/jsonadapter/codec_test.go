package jsonadapter

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/rawgridgo/internal/config"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const sample = `{
  "blocks": [
    {"block_id": "b1", "block_type": "load", "x": 10, "y": 20.5,
     "parameters": {"file_path": "/tmp/a.raw", "width": 4, "height": 4}},
    {"block_id": "b2", "block_type": "convolution", "x": 200, "y": 20,
     "parameters": {"mask_name": "custom", "kernel": [[0, 1, 0], [1, -4, 1], [0, 1, 0]]}},
    {"block_id": "b3", "block_type": "save", "x": 400, "y": 20, "parameters": {}}
  ],
  "connections": [
    {"source_block": "b1", "source_port": 0, "target_block": "b2", "target_port": 0},
    {"source_block": "b2", "source_port": 0, "target_block": "b3", "target_port": 0}
  ]
}`

func TestDecode(t *testing.T) {
	doc, err := New().Decode(context.Background(), "sample.json", []byte(sample))
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "load", doc.Blocks[0].Kind)
	assert.Equal(t, 20.5, doc.Blocks[0].Y)
	assert.True(t, doc.Blocks[0].Params["file_path"].RawEquals(cty.StringVal("/tmp/a.raw")))
	assert.Equal(t, 3, doc.Blocks[1].Params["kernel"].LengthInt())
	assert.Empty(t, doc.Blocks[2].Params)

	want := []config.ConnectionSpec{
		{SourceBlock: "b1", SourcePort: 0, TargetBlock: "b2", TargetPort: 0},
		{SourceBlock: "b2", SourcePort: 0, TargetBlock: "b3", TargetPort: 0},
	}
	if diff := cmp.Diff(want, doc.Connections); diff != "" {
		t.Errorf("connections mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := New().Decode(context.Background(), "bad.json", []byte(`{"blocks": [`))
	assert.ErrorContains(t, err, "bad.json")
}

func TestEncode(t *testing.T) {
	doc := &config.Document{
		Blocks: []config.BlockSpec{{
			ID: "b1", Kind: "threshold", X: 1, Y: 2,
			Params: node.Params{"threshold": cty.NumberIntVal(100)},
		}},
	}
	data, err := New().Encode(context.Background(), doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"blocks": [{"block_id": "b1", "block_type": "threshold", "x": 1, "y": 2, "parameters": {"threshold": 100}}],
		"connections": []
	}`, string(data))

	back, err := New().Decode(context.Background(), "x.json", data)
	require.NoError(t, err)
	assert.True(t, back.Blocks[0].Params.Equal(doc.Blocks[0].Params))
	assert.Equal(t, []string{".json"}, New().Extensions())
}
