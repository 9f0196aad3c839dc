package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/metrics"
	"github.com/specialistvlad/rawgridgo/internal/preview"
	"github.com/specialistvlad/rawgridgo/internal/session"
	"github.com/specialistvlad/rawgridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	t      *testing.T
	router *gin.Engine
	loaded int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx, _ := testutil.Context(t)
	reg := prometheus.NewRegistry()
	e := engine.New(testutil.Registry(t), engine.WithObserver(metrics.New(reg)))
	h := &harness{t: t}
	srv := New(ctx, session.New(e), Options{
		Gatherer:       reg,
		WorkflowLoaded: func(context.Context) { h.loaded++ },
	})
	h.router = srv.Router()
	return h
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(h.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (h *harness) create(kind string) BlockView {
	h.t.Helper()
	w := h.do(http.MethodPost, "/blocks", map[string]any{"block_type": kind, "x": 1, "y": 2})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[BlockView](h.t, w)
}

func TestHealthAndKinds(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK\n", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	kinds := decode[[]KindView](t, h.do(http.MethodGet, "/kinds", nil))
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.Name
	}
	assert.Equal(t, []string{"load", "brightness", "convolution", "threshold", "difference", "histogram", "save"}, names)
	assert.Equal(t, []string{"Image A", "Image B"}, kinds[4].Inputs)
	assert.Equal(t, "Display/Save", kinds[6].Title)
}

func TestBlockLifecycle(t *testing.T) {
	h := newHarness(t)
	src := h.create("load")
	assert.Equal(t, "load", src.Kind)
	assert.False(t, src.Ready)
	assert.Equal(t, []string{"Image"}, src.Outputs)

	thr := h.create("threshold")
	w := h.do(http.MethodPost, "/connections", map[string]any{
		"source_block": src.ID, "source_port": 0,
		"target_block": thr.ID, "target_port": 0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	raw := testutil.WriteRawBytes(t, []byte{10, 200, 30, 250})
	w = h.do(http.MethodPost, "/blocks/"+src.ID+"/load", map[string]any{"file_path": raw})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	loaded := decode[BlockView](t, w)
	assert.True(t, loaded.Ready)
	assert.Equal(t, 2, loaded.Width)

	w = h.do(http.MethodPut, "/blocks/"+thr.ID+"/parameters", `{"threshold": 100}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"threshold": 100}`, mustJSON(t, decode[BlockView](t, w).Params))

	w = h.do(http.MethodGet, "/blocks/"+thr.ID+"/histogram", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[struct{ Bins []int }](t, w)
	require.Len(t, hist.Bins, 256)
	assert.Equal(t, 2, hist.Bins[0])
	assert.Equal(t, 2, hist.Bins[255])

	w = h.do(http.MethodGet, "/blocks/"+thr.ID+"/thumbnail?w=40&h=40", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	w = h.do(http.MethodGet, "/blocks/"+thr.ID+"/thumbnail?w=100000&h=100000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	img, err = png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, preview.MaxSide, preview.MaxSide), img.Bounds())

	out := filepath.Join(t.TempDir(), "out.raw")
	w = h.do(http.MethodPost, "/blocks/"+thr.ID+"/save", map[string]any{"path": out})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPatch, "/blocks/"+thr.ID, map[string]any{"x": 50, "y": 60})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50.0, decode[BlockView](t, w).X)

	w = h.do(http.MethodDelete, "/blocks/"+src.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, decode[[]ConnectionView](t, h.do(http.MethodGet, "/connections", nil)), 0)

	// the threshold block keeps its image after losing its source
	w = h.do(http.MethodGet, "/blocks/"+thr.ID, nil)
	assert.True(t, decode[BlockView](t, w).Ready)

	metricsBody := h.do(http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, metricsBody, `rawgrid_cascade_blocks_processed_total{kind="threshold"}`)
}

func TestErrors(t *testing.T) {
	h := newHarness(t)
	thr := h.create("threshold")
	save := h.create("save")
	conv := h.create("convolution")
	ld := h.create("load")

	cases := []struct {
		name, method, path string
		body               any
		status             int
		code               string
	}{
		{"unknown kind", http.MethodPost, "/blocks", map[string]any{"block_type": "sepia"}, http.StatusBadRequest, "UNKNOWN_KIND"},
		{"missing kind", http.MethodPost, "/blocks", map[string]any{}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing block", http.MethodGet, "/blocks/nope", nil, http.StatusNotFound, "BLOCK_NOT_FOUND"},
		{"out of range", http.MethodPut, "/blocks/" + thr.ID + "/parameters", `{"threshold": 300}`, http.StatusBadRequest, "INVALID_PARAMETERS"},
		{"unknown param", http.MethodPut, "/blocks/" + thr.ID + "/parameters", `{"gamma": 1}`, http.StatusBadRequest, "INVALID_PARAMETERS"},
		{"no image", http.MethodGet, "/blocks/" + thr.ID + "/histogram", nil, http.StatusConflict, "NO_IMAGE"},
		{"input out of range", http.MethodPost, "/connections", map[string]any{
			"source_block": thr.ID, "source_port": 0, "target_block": save.ID, "target_port": 3,
		}, http.StatusConflict, "INVALID_CONNECTION"},
		{"missing connection", http.MethodDelete, "/connections/nope", nil, http.StatusNotFound, "CONNECTION_NOT_FOUND"},
		{"load on missing block", http.MethodPost, "/blocks/nope/load", map[string]any{"file_path": "x.raw", "width": 2, "height": 2}, http.StatusNotFound, "BLOCK_NOT_FOUND"},
		{"even kernel", http.MethodPut, "/blocks/" + conv.ID + "/parameters", `{"mask_name": "custom", "kernel": [[1, 1], [1, 1]]}`, http.StatusBadRequest, "INVALID_PARAMETERS"},
		{"oversized load", http.MethodPost, "/blocks/" + ld.ID + "/load", map[string]any{"file_path": "x.raw", "width": 1 << 32, "height": 1 << 32}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad format", http.MethodGet, "/workflow?format=yaml", nil, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := h.do(tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestTwoPhaseConnection(t *testing.T) {
	h := newHarness(t)
	a := h.create("brightness")
	b := h.create("brightness")

	w := h.do(http.MethodPost, "/connections/pending", map[string]any{"block": a.ID, "port": 0})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pending := decode[ConnectionView](t, w)
	assert.Nil(t, pending.TargetBlock)
	assert.Empty(t, decode[[]ConnectionView](t, h.do(http.MethodGet, "/connections", nil)))

	w = h.do(http.MethodPut, "/connections/"+pending.ID+"/target", map[string]any{"block": b.ID, "port": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode[ConnectionView](t, w)
	require.NotNil(t, done.TargetBlock)
	assert.Equal(t, b.ID, *done.TargetBlock)
	require.NotNil(t, done.Target)
	assert.Equal(t, b.ID+".input[0]", done.Target.String())
	assert.Equal(t, a.ID+".output[0]", done.Source.String())

	w = h.do(http.MethodPost, "/connections/pending", map[string]any{"block": b.ID, "port": 0})
	cancelled := decode[ConnectionView](t, w)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/connections/"+cancelled.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/connections/"+done.ID, nil).Code)
	assert.Empty(t, decode[[]ConnectionView](t, h.do(http.MethodGet, "/connections", nil)))
}

func TestWorkflowExportImport(t *testing.T) {
	for _, format := range []string{"json", "hcl"} {
		t.Run(format, func(t *testing.T) {
			h := newHarness(t)
			a := h.create("load")
			b := h.create("brightness")
			w := h.do(http.MethodPost, "/connections", map[string]any{
				"source_block": a.ID, "source_port": 0, "target_block": b.ID, "target_port": 0,
			})
			require.Equal(t, http.StatusCreated, w.Code)

			w = h.do(http.MethodGet, "/workflow?format="+format, nil)
			require.Equal(t, http.StatusOK, w.Code)
			exported := w.Body.String()
			assert.Contains(t, exported, "brightness")

			fresh := newHarness(t)
			w = fresh.do(http.MethodPut, "/workflow?format="+format, exported)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, `{"blocks": 2, "skipped": []}`, w.Body.String())
			assert.Equal(t, 1, fresh.loaded)

			blocks := decode[[]BlockView](t, fresh.do(http.MethodGet, "/blocks", nil))
			require.Len(t, blocks, 2)
			for _, bl := range blocks {
				assert.False(t, bl.Ready)
				assert.NotEqual(t, a.ID, bl.ID)
			}
			assert.Len(t, decode[[]ConnectionView](t, fresh.do(http.MethodGet, "/connections", nil)), 1)
		})
	}

	h := newHarness(t)
	w := h.do(http.MethodPut, "/workflow", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "INVALID_REQUEST"), w.Body.String())
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
