package worker

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
	"github.com/alanyang/insta-mosaic/internal/service/snapshot"
	workersvc "github.com/alanyang/insta-mosaic/internal/service/worker"
)

func Register(rg *gin.RouterGroup, mgr *workersvc.Manager, snaps *snapshot.Service) {
	rg.POST("", startWorker(mgr))
	rg.GET("", listWorkers(snaps))
	rg.GET("/:id", getWorker(snaps))
	rg.DELETE("/:id", stopWorker(mgr))
}

type startWorkerReq struct {
	Origin    string   `json:"origin" binding:"required"`
	Hashtags  []string `json:"hashtags" binding:"required"`
	PieceSize []int    `json:"piece_size"`
}

type pieceView struct {
	PostID   string          `json:"post_id"`
	UserName string          `json:"user_name"`
	Hashtag  string          `json:"hashtag"`
	Position mosaic.Position `json:"position"`
}

type mosaicView struct {
	ID            uuid.UUID        `json:"id"`
	Status        workersvc.Status `json:"status"`
	MosaicArt     string           `json:"mosaic_art"`
	PiecePosts    []pieceView      `json:"piece_posts"`
	InstaHashtags []string         `json:"insta_hashtags"`
	Version       uint64           `json:"version"`
}

func startWorker(mgr *workersvc.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startWorkerReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var piece mosaic.Size
		switch len(req.PieceSize) {
		case 0:
		case 2:
			piece = mosaic.Size{Width: req.PieceSize[0], Height: req.PieceSize[1]}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "piece_size must be [width, height]"})
			return
		}

		ref, err := decodeOrigin(req.Origin)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := mgr.Start(c.Request.Context(), workersvc.StartRequest{
			Reference: ref,
			Hashtags:  req.Hashtags,
			PieceSize: piece,
		})
		if err != nil {
			switch {
			case errors.Is(err, mosaic.ErrSizeMismatch),
				errors.Is(err, mosaic.ErrReferenceSize),
				errors.Is(err, workersvc.ErrNoHashtags),
				errors.Is(err, workersvc.ErrNoReference):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, workersvc.ErrClosed):
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.Header("Location", c.FullPath()+"/"+id.String())
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// decodeOrigin accepts plain base64 or a data URL.
func decodeOrigin(origin string) (image.Image, error) {
	if i := strings.Index(origin, ","); strings.HasPrefix(origin, "data:") && i >= 0 {
		origin = origin[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(origin))
	if err != nil {
		return nil, fmt.Errorf("origin is not valid base64: %w", err)
	}
	decoded, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("origin is not a supported image: %w", err)
	}
	return decoded, nil
}

func listWorkers(snaps *snapshot.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, snaps.List())
	}
}

func getWorker(snaps *snapshot.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		view, err := snaps.Render(id)
		if err != nil {
			switch {
			case errors.Is(err, workersvc.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "worker not found"})
			case errors.Is(err, snapshot.ErrFailed):
				c.JSON(http.StatusGone, gin.H{"error": err.Error(), "status": view.Status})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		pieces := make([]pieceView, 0, len(view.Posts))
		for _, p := range view.Posts {
			pieces = append(pieces, pieceView{PostID: p.PostID, UserName: p.Username, Hashtag: p.Hashtag, Position: p.Position})
		}
		c.JSON(http.StatusOK, mosaicView{
			ID:            view.ID,
			Status:        view.Status,
			MosaicArt:     base64.StdEncoding.EncodeToString(view.PNG),
			PiecePosts:    pieces,
			InstaHashtags: view.Hashtags,
			Version:       view.Version,
		})
	}
}

func stopWorker(mgr *workersvc.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if err := mgr.Stop(c.Request.Context(), id); err != nil {
			if errors.Is(err, workersvc.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "worker not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
