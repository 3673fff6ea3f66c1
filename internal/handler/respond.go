package handler

import (
	"net/http"
	"strconv"

	"Book_Club/internal/middleware"
	"Book_Club/internal/pkg"

	"github.com/gin-gonic/gin"
)

// respondError renders err as {"error": ...}. Unclassified errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	status := pkg.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		middleware.Logger(c).WithError(err).Error("request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, pkg.BindError(err))
		return false
	}
	return true
}

func uintParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		respondError(c, pkg.Errorf(pkg.ErrInvalidInput, "invalid %s", name))
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	id, ok := v.(uint64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return id, true
}
