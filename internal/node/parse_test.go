package node

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortRef(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  PortRef
	}{
		{"output", "b1.output[2]", OutputRef("b1", 2)},
		{"input", "b1.input[0]", InputRef("b1", 0)},
		{"uuid block", "0f8fad5b-d9cb-469f-a165-70867728950e.output[0]", OutputRef("0f8fad5b-d9cb-469f-a165-70867728950e", 0)},
		{"dotted block", "a.b.input[11]", InputRef("a.b", 11)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePortRef(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.input, got.String())
		})
	}

	for _, bad := range []string{"", "b1", "b1.output", "b1.side[0]", ".output[0]", "b1.output[-1]", "b1.output[x]"} {
		_, err := ParsePortRef(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestPortRef_Text(t *testing.T) {
	type wrapper struct {
		Ref PortRef `json:"ref"`
	}
	data, err := json.Marshal(wrapper{Ref: OutputRef("b9", 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ref": "b9.output[1]"}`, string(data))

	var back wrapper
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, OutputRef("b9", 1), back.Ref)

	assert.Error(t, json.Unmarshal([]byte(`{"ref": "nope"}`), &back))
}
