package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nordvik/go-shop-api/internal/model"
)

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}

// writeValidationError maps a model.ValidationError to a 400 with its kind so
// clients can branch without parsing message text. Returns false when err is
// some other error.
func writeValidationError(c *gin.Context, err error) bool {
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "kind": string(ve.Kind)})
	return true
}
