// Package handlers contains the HTTP route handlers.
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// timeNow is swapped out by tests that need a fixed clock
var timeNow = time.Now

// pathID parses the named path parameter as an int64 ID
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
