// Package watch reprocesses load blocks when the RAW file they point at
// changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/session"
	"github.com/specialistvlad/rawgridgo/modules/load"
	"github.com/zclconf/go-cty/cty"
)

// DefaultDebounce coalesces the burst of events an editor produces when it
// rewrites a file.
const DefaultDebounce = 100 * time.Millisecond

// Watcher observes the directories of every load block's file. Directories
// are watched rather than files so that atomic replace-by-rename is seen.
type Watcher struct {
	sess     *session.Session
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu   sync.Mutex
	dirs map[string]bool
}

var _ engine.Observer = (*Watcher)(nil)

// New creates a watcher. A non-positive debounce uses DefaultDebounce.
func New(sess *session.Session, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		sess:     sess,
		fsw:      fsw,
		debounce: debounce,
		dirs:     map[string]bool{},
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Sync starts watching the directories of all load blocks currently in the
// session's graph.
func (w *Watcher) Sync(ctx context.Context) error {
	var paths []string
	err := w.sess.Do(func(e *engine.Engine) error {
		for _, b := range e.Graph().Blocks() {
			if p, ok := filePath(b); ok {
				paths = append(paths, p)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		w.track(ctx, p)
	}
	return nil
}

// BlockProcessed implements engine.Observer: a load block that just read a
// file gets its directory watched.
func (w *Watcher) BlockProcessed(ctx context.Context, b *node.Block, _ time.Duration) {
	if p, ok := filePath(b); ok {
		w.track(ctx, p)
	}
}

// BlockSkipped implements engine.Observer.
func (w *Watcher) BlockSkipped(context.Context, *node.Block, error) {}

func (w *Watcher) track(ctx context.Context, path string) {
	dir := filepath.Dir(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to watch directory.", "directory", dir, "error", err)
		return
	}
	w.dirs[dir] = true
	ctxlog.FromContext(ctx).Debug("Watching directory.", "directory", dir)
}

// Run delivers debounced changes to Reprocess until ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending[filepath.Clean(event.Name)] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error.", "error", err)
		case <-fire:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			fire = nil
			w.Reprocess(ctx, changed)
		}
	}
}

// Reprocess runs a cascade from every load block reading one of paths and
// returns how many blocks were triggered.
func (w *Watcher) Reprocess(ctx context.Context, paths []string) int {
	logger := ctxlog.FromContext(ctx)
	n := 0
	_ = w.sess.Do(func(e *engine.Engine) error {
		for _, b := range e.Graph().Blocks() {
			p, ok := filePath(b)
			if !ok || !slices.Contains(paths, p) {
				continue
			}
			logger.Info("Source file changed, reprocessing.", "block", b.ID(), "path", p)
			if err := e.Process(ctx, b.ID()); err != nil {
				logger.Warn("Reprocessing failed.", "block", b.ID(), "error", err)
				continue
			}
			n++
		}
		return nil
	})
	return n
}

// filePath returns the cleaned absolute file_path of a load block.
func filePath(b *node.Block) (string, bool) {
	if b.Kind != load.Kind {
		return "", false
	}
	v := b.Params.Get("file_path")
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.String || v.AsString() == "" {
		return "", false
	}
	abs, err := filepath.Abs(v.AsString())
	if err != nil {
		return "", false
	}
	return abs, true
}
