package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/graph"
	"github.com/specialistvlad/rawgridgo/internal/node"
)

type portRequest struct {
	Block string `json:"block" binding:"required"`
	Port  *int   `json:"port" binding:"required,gte=0"`
}

type connectRequest struct {
	SourceBlock string `json:"source_block" binding:"required"`
	SourcePort  *int   `json:"source_port" binding:"required,gte=0"`
	TargetBlock string `json:"target_block" binding:"required"`
	TargetPort  *int   `json:"target_port" binding:"required,gte=0"`
}

func (s *Server) handleListConnections(c *gin.Context) {
	out := []ConnectionView{}
	_ = s.sess.Do(func(e *engine.Engine) error {
		for _, conn := range e.Graph().Connections() {
			out = append(out, connectionView(conn))
		}
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleConnect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	src := node.OutputRef(node.BlockID(req.SourceBlock), *req.SourcePort)
	dst := node.InputRef(node.BlockID(req.TargetBlock), *req.TargetPort)
	s.respondConnection(c, http.StatusCreated, func(e *engine.Engine) (*node.Connection, error) {
		return e.Connect(c.Request.Context(), src, dst)
	})
}

// handleBeginConnection starts a connection from an output port, the first
// half of a drag in the editor.
func (s *Server) handleBeginConnection(c *gin.Context) {
	var req portRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	src := node.OutputRef(node.BlockID(req.Block), *req.Port)
	s.respondConnection(c, http.StatusCreated, func(e *engine.Engine) (*node.Connection, error) {
		return e.BeginConnection(c.Request.Context(), src)
	})
}

func (s *Server) handleFinalizeConnection(c *gin.Context) {
	var req portRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dst := node.InputRef(node.BlockID(req.Block), *req.Port)
	s.respondConnection(c, http.StatusOK, func(e *engine.Engine) (*node.Connection, error) {
		return e.FinalizeConnection(c.Request.Context(), connectionID(c), dst)
	})
}

// handleDeleteConnection cancels a pending connection or disconnects a
// finalized one.
func (s *Server) handleDeleteConnection(c *gin.Context) {
	id := connectionID(c)
	err := s.sess.Do(func(e *engine.Engine) error {
		conn, ok := e.Graph().Connection(id)
		if !ok {
			return fmt.Errorf("%w: %s", graph.ErrConnectionNotFound, id)
		}
		if !conn.Finalized() {
			return e.CancelConnection(c.Request.Context(), id)
		}
		return e.Disconnect(c.Request.Context(), id)
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) respondConnection(c *gin.Context, status int, fn func(e *engine.Engine) (*node.Connection, error)) {
	var view ConnectionView
	err := s.sess.Do(func(e *engine.Engine) error {
		conn, err := fn(e)
		if err != nil {
			return err
		}
		view = connectionView(conn)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, view)
}

func connectionID(c *gin.Context) node.ConnectionID {
	return node.ConnectionID(c.Param("id"))
}
