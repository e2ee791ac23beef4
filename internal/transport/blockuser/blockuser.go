package blockuser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	workersvc "github.com/alanyang/insta-mosaic/internal/service/worker"
)

func Register(rg *gin.RouterGroup, mgr *workersvc.Manager) {
	rg.POST("", blockUser(mgr))
	rg.GET("", listBlockedUsers(mgr))
}

type blockUserReq struct {
	UserName string `json:"user_name" binding:"required"`
}

func blockUser(mgr *workersvc.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req blockUserReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := mgr.BlockUser(c.Request.Context(), req.UserName); err != nil {
			if errors.Is(err, workersvc.ErrEmptyUsername) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listBlockedUsers(mgr *workersvc.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := mgr.BlockedUsers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_names": users})
	}
}
