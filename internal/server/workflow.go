package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/rawgridgo/internal/config"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/workflow"
)

// codec picks a workflow codec from the "format" query parameter, JSON by
// default.
func codec(c *gin.Context) (config.Codec, error) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	return workflow.CodecFor("workflow." + format)
}

func (s *Server) handleExportWorkflow(c *gin.Context) {
	cd, err := codec(c)
	if err != nil {
		fail(c, err)
		return
	}
	var doc *config.Document
	_ = s.sess.Do(func(e *engine.Engine) error {
		doc = workflow.Snapshot(e.Graph())
		return nil
	})
	data, err := cd.Encode(c.Request.Context(), doc)
	if err != nil {
		fail(c, err)
		return
	}
	contentType := "application/json"
	if cd.Extensions()[0] != ".json" {
		contentType = "text/plain; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, data)
}

// handleImportWorkflow replaces the whole graph. Nothing is processed.
func (s *Server) handleImportWorkflow(c *gin.Context) {
	cd, err := codec(c)
	if err != nil {
		fail(c, err)
		return
	}
	src, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	doc, err := cd.Decode(ctx, "request"+cd.Extensions()[0], src)
	if err != nil {
		badRequest(c, err)
		return
	}

	var skipped []string
	var blocks int
	_ = s.sess.Do(func(e *engine.Engine) error {
		g, sk := workflow.Restore(ctx, e.Registry(), doc)
		e.Replace(g)
		skipped, blocks = sk, g.Len()
		return nil
	})
	if s.opts.WorkflowLoaded != nil {
		s.opts.WorkflowLoaded(ctx)
	}
	if skipped == nil {
		skipped = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"blocks": blocks, "skipped": skipped})
}
