package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
)

const paramKeyPrefix = "param:"

// RequireIDParams parses the named numeric path parameters and stores them in
// the context. Malformed ids are answered with 400 before reaching the handler.
func RequireIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := strconv.ParseUint(c.Param(name), 10, 64)
			if err != nil || id == 0 {
				apierrors.BadRequest(c, "Invalid "+name)
				c.Abort()
				return
			}
			c.Set(paramKeyPrefix+name, id)
		}
		c.Next()
	}
}

// IDParam returns a path parameter parsed by RequireIDParams.
func IDParam(c *gin.Context, name string) uint64 {
	return c.GetUint64(paramKeyPrefix + name)
}
