package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atelier-hq/workplane/internal/resputil"
)

// parseIDParam reads a positive integer path parameter. On a malformed
// id it writes the bad-request response and returns false.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		resputil.BadRequestError(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseIDQuery is parseIDParam for query-string parameters.
func parseIDQuery(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || id == 0 {
		resputil.BadRequestError(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
