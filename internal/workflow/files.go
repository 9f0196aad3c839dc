package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/rawgridgo/internal/config"
	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/fsutil"
	"github.com/specialistvlad/rawgridgo/internal/hcl_adapter"
	"github.com/specialistvlad/rawgridgo/internal/jsonadapter"
)

// ErrUnsupportedFormat is returned for workflow files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported workflow format")

// Codecs are consulted in order by CodecFor.
var Codecs = []config.Codec{
	jsonadapter.New(),
	hcl_adapter.New(),
}

// CodecFor picks the codec handling path's extension.
func CodecFor(path string) (config.Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range Codecs {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// Extensions lists every extension a codec is registered for.
func Extensions() []string {
	var out []string
	for _, c := range Codecs {
		out = append(out, c.Extensions()...)
	}
	return out
}

// Resolve returns path itself for a file, or every workflow file below it
// for a directory.
func Resolve(ctx context.Context, path string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing workflow path %s: %w", path, err)
	}
	if !info.IsDir() {
		if _, err := CodecFor(path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	logger.Debug("Workflow path is a directory, scanning.", "directory", path)
	return fsutil.FindFilesByExtension(path, Extensions()...)
}

// ReadFile decodes the workflow document at path.
func ReadFile(ctx context.Context, path string) (*config.Document, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	return codec.Decode(ctx, path, src)
}

// WriteFile encodes doc into path.
func WriteFile(ctx context.Context, path string, doc *config.Document) error {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}
	data, err := codec.Encode(ctx, doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write workflow: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Workflow saved.", "path", path, "blocks", len(doc.Blocks), "connections", len(doc.Connections))
	return nil
}

// Load replaces the engine's graph with the workflow at path. Nothing is
// processed. The returned messages describe skipped entries.
func Load(ctx context.Context, e *engine.Engine, path string) ([]string, error) {
	doc, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	g, skipped := Restore(ctx, e.Registry(), doc)
	e.Replace(g)
	return skipped, nil
}

// Save writes the engine's graph to path.
func Save(ctx context.Context, e *engine.Engine, path string) error {
	return WriteFile(ctx, path, Snapshot(e.Graph()))
}
