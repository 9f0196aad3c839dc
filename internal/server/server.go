// Package server exposes an engine session over HTTP for an editor front
// end: the palette of kinds, block and connection edits, thumbnails,
// histograms and whole-workflow import/export.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/rawgridgo/internal/ctxlog"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/graph"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
	"github.com/specialistvlad/rawgridgo/internal/preview"
	"github.com/specialistvlad/rawgridgo/internal/rawio"
	"github.com/specialistvlad/rawgridgo/internal/registry"
	"github.com/specialistvlad/rawgridgo/internal/session"
	"github.com/specialistvlad/rawgridgo/internal/workflow"
)

// Options tunes a Server. The zero value is usable.
type Options struct {
	ThumbnailWidth  int
	ThumbnailHeight int
	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
	// WorkflowLoaded runs after a workflow replaced the graph.
	WorkflowLoaded func(ctx context.Context)
}

// Server holds the HTTP handlers.
type Server struct {
	sess   *session.Session
	logger *slog.Logger
	opts   Options
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// New creates a server logging through the logger carried by ctx.
func New(ctx context.Context, sess *session.Session, opts Options) *Server {
	if opts.ThumbnailWidth <= 0 {
		opts.ThumbnailWidth = preview.DefaultWidth
	}
	if opts.ThumbnailHeight <= 0 {
		opts.ThumbnailHeight = preview.DefaultHeight
	}
	return &Server{
		sess:   sess,
		logger: ctxlog.FromContext(ctx),
		opts:   opts,
	}
}

// Router builds the gin engine serving every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger)

	r.GET("/health", s.handleHealth)
	r.GET("/kinds", s.handleKinds)

	r.GET("/blocks", s.handleListBlocks)
	r.POST("/blocks", s.handleCreateBlock)
	r.GET("/blocks/:id", s.handleGetBlock)
	r.PATCH("/blocks/:id", s.handleMoveBlock)
	r.DELETE("/blocks/:id", s.handleDeleteBlock)
	r.PUT("/blocks/:id/parameters", s.handleSetParams)
	r.POST("/blocks/:id/load", s.handleLoadFile)
	r.POST("/blocks/:id/process", s.handleProcess)
	r.POST("/blocks/:id/save", s.handleSaveImage)
	r.GET("/blocks/:id/thumbnail", s.handleThumbnail)
	r.GET("/blocks/:id/histogram", s.handleHistogram)

	r.GET("/connections", s.handleListConnections)
	r.POST("/connections", s.handleConnect)
	r.POST("/connections/pending", s.handleBeginConnection)
	r.PUT("/connections/:id/target", s.handleFinalizeConnection)
	r.DELETE("/connections/:id", s.handleDeleteConnection)

	r.GET("/workflow", s.handleExportWorkflow)
	r.PUT("/workflow", s.handleImportWorkflow)

	if s.opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

// requestLogger attaches a request-scoped logger to the request context.
func (s *Server) requestLogger(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	logger := s.logger.With("request_id", requestID)
	c.Request = c.Request.WithContext(ctxlog.WithLogger(c.Request.Context(), logger))

	c.Next()

	logger.Debug("Request handled.", "method", c.Request.Method, "path", c.FullPath(), "status", c.Writer.Status())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK\n")
}

// fail maps err onto a status code and error code.
func fail(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, graph.ErrBlockNotFound):
		status, code = http.StatusNotFound, "BLOCK_NOT_FOUND"
	case errors.Is(err, graph.ErrConnectionNotFound):
		status, code = http.StatusNotFound, "CONNECTION_NOT_FOUND"
	case errors.Is(err, graph.ErrInvalidConnection):
		status, code = http.StatusConflict, "INVALID_CONNECTION"
	case errors.Is(err, registry.ErrUnknownKind):
		status, code = http.StatusBadRequest, "UNKNOWN_KIND"
	case errors.Is(err, registry.ErrInvalidParams), errors.Is(err, pixel.ErrInvalidKernel):
		status, code = http.StatusBadRequest, "INVALID_PARAMETERS"
	case errors.Is(err, workflow.ErrUnsupportedFormat):
		status, code = http.StatusBadRequest, "UNSUPPORTED_FORMAT"
	case errors.Is(err, engine.ErrNoImage):
		status, code = http.StatusConflict, "NO_IMAGE"
	case errors.Is(err, rawio.ErrUnknownShape):
		status, code = http.StatusUnprocessableEntity, "UNKNOWN_SHAPE"
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		status, code = http.StatusUnprocessableEntity, "FILE_ERROR"
	}
	logger := ctxlog.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed.", "error", err)
	} else {
		logger.Debug("Request rejected.", "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
}
