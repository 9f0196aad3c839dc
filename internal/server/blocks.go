package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/graph"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/preview"
)

type createBlockRequest struct {
	Kind string  `json:"block_type" binding:"required"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type moveBlockRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

type loadFileRequest struct {
	FilePath string `json:"file_path" binding:"required"`
	Width    int    `json:"width" binding:"gte=0,lte=4096"`
	Height   int    `json:"height" binding:"gte=0,lte=4096"`
}

type saveImageRequest struct {
	Path string `json:"path" binding:"required"`
}

func (s *Server) handleKinds(c *gin.Context) {
	var out []KindView
	_ = s.sess.Do(func(e *engine.Engine) error {
		for _, k := range e.Registry().Kinds() {
			out = append(out, kindView(k))
		}
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListBlocks(c *gin.Context) {
	out := []BlockView{}
	_ = s.sess.Do(func(e *engine.Engine) error {
		for _, b := range e.Graph().Blocks() {
			out = append(out, blockView(b))
		}
		return nil
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateBlock(c *gin.Context) {
	var req createBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var view BlockView
	err := s.sess.Do(func(e *engine.Engine) error {
		b, err := e.CreateBlock(c.Request.Context(), req.Kind, req.X, req.Y)
		if err != nil {
			return err
		}
		view = blockView(b)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *Server) handleGetBlock(c *gin.Context) {
	s.respondBlock(c, http.StatusOK, nil)
}

func (s *Server) handleMoveBlock(c *gin.Context) {
	var req moveBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondBlock(c, http.StatusOK, func(e *engine.Engine, id node.BlockID) error {
		return e.MoveBlock(id, *req.X, *req.Y)
	})
}

func (s *Server) handleDeleteBlock(c *gin.Context) {
	err := s.sess.Do(func(e *engine.Engine) error {
		return e.RemoveBlock(c.Request.Context(), blockID(c))
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetParams(c *gin.Context) {
	var edits node.Params
	if err := c.ShouldBindJSON(&edits); err != nil {
		badRequest(c, err)
		return
	}
	s.respondBlock(c, http.StatusOK, func(e *engine.Engine, id node.BlockID) error {
		return e.SetParams(c.Request.Context(), id, edits)
	})
}

func (s *Server) handleLoadFile(c *gin.Context) {
	var req loadFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondBlock(c, http.StatusOK, func(e *engine.Engine, id node.BlockID) error {
		return e.LoadFile(c.Request.Context(), id, req.FilePath, req.Width, req.Height)
	})
}

func (s *Server) handleProcess(c *gin.Context) {
	s.respondBlock(c, http.StatusOK, func(e *engine.Engine, id node.BlockID) error {
		return e.Process(c.Request.Context(), id)
	})
}

func (s *Server) handleSaveImage(c *gin.Context) {
	var req saveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := s.sess.Do(func(e *engine.Engine) error {
		return e.SaveImage(c.Request.Context(), blockID(c), req.Path)
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": req.Path})
}

func (s *Server) handleThumbnail(c *gin.Context) {
	w := queryInt(c, "w", s.opts.ThumbnailWidth)
	h := queryInt(c, "h", s.opts.ThumbnailHeight)

	var thumb []byte
	err := s.sess.Do(func(e *engine.Engine) error {
		img, err := e.Thumbnail(blockID(c), w, h)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := preview.EncodePNG(&buf, img); err != nil {
			return err
		}
		thumb = buf.Bytes()
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", thumb)
}

func (s *Server) handleHistogram(c *gin.Context) {
	var bins [256]int
	err := s.sess.Do(func(e *engine.Engine) error {
		var err error
		bins, err = e.Histogram(blockID(c))
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bins": bins})
}

// respondBlock runs fn, if any, against the block named in the path and
// replies with the block's resulting state.
func (s *Server) respondBlock(c *gin.Context, status int, fn func(e *engine.Engine, id node.BlockID) error) {
	id := blockID(c)
	var view BlockView
	err := s.sess.Do(func(e *engine.Engine) error {
		if fn != nil {
			if err := fn(e, id); err != nil {
				return err
			}
		}
		b, ok := e.Graph().Block(id)
		if !ok {
			return fmt.Errorf("%w: %s", graph.ErrBlockNotFound, id)
		}
		view = blockView(b)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, view)
}

func blockID(c *gin.Context) node.BlockID {
	return node.BlockID(c.Param("id"))
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
