// Package notify streams block updates to a socket.io server so that an
// editor front end can refresh thumbnails as a cascade runs.
package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names emitted by a Publisher.
const (
	EventProcessed = "block_processed"
	EventSkipped   = "block_skipped"
)

// ConnectTimeout bounds how long Dial waits for the server.
var ConnectTimeout = 15 * time.Second

// Options configures Dial.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// Publisher is an engine observer that emits one socket.io event per block
// visited by a cascade.
type Publisher struct {
	emit  func(event string, payload map[string]any)
	close func()
}

var _ engine.Observer = (*Publisher)(nil)

// Dial connects to a socket.io server and returns a publisher bound to it.
func Dial(ctx context.Context, o Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "notify", "url", o.URL)

	parsed, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notify URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("notify URL %q must be absolute", o.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsed.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := o.Namespace
	if namespace == "" {
		namespace = "/"
	}

	baseURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Notify client connected.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	logger.Debug("Connecting notify client...")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", ConnectTimeout)
	}

	return &Publisher{
		emit: func(event string, payload map[string]any) {
			io.Emit(event, payload)
		},
		close: func() {
			slog.Debug("Disconnecting notify client", "sid", io.Id())
			io.Disconnect()
		},
	}, nil
}

// BlockProcessed implements engine.Observer.
func (p *Publisher) BlockProcessed(_ context.Context, b *node.Block, elapsed time.Duration) {
	p.emit(EventProcessed, ProcessedPayload(b, elapsed))
}

// BlockSkipped implements engine.Observer.
func (p *Publisher) BlockSkipped(_ context.Context, b *node.Block, reason error) {
	p.emit(EventSkipped, SkippedPayload(b, reason))
}

// Close disconnects from the server.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}

// ProcessedPayload describes a block that produced a new image.
func ProcessedPayload(b *node.Block, elapsed time.Duration) map[string]any {
	payload := map[string]any{
		"block_id":   string(b.ID()),
		"block_type": b.Kind,
		"elapsed_ms": float64(elapsed.Microseconds()) / 1000,
	}
	if img := b.Image(); img != nil {
		payload["width"] = img.Width()
		payload["height"] = img.Height()
	}
	return payload
}

// SkippedPayload describes a block at which a cascade stopped. "ready" is
// false when the block is only waiting for upstream data.
func SkippedPayload(b *node.Block, reason error) map[string]any {
	return map[string]any{
		"block_id":   string(b.ID()),
		"block_type": b.Kind,
		"reason":     reason.Error(),
		"ready":      !errors.Is(reason, registry.ErrInputNotReady),
	}
}
