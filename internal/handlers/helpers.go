package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response wrapper: status is "success", "fail"
// (client error) or "error" (server failure).
type Envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func respondSuccess(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, Envelope{Status: "success", Data: data, Message: message})
}

func respondFail(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Status: "fail", Data: nil, Message: message})
}

// respondServerError never leaks internal detail; the cause is logged at the
// call site.
func respondServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Envelope{
		Status: "error", Data: nil, Message: "Internal Server Error",
	})
}

// tolerant of the value types middlewares may stash (int64 / int / string)
func getInt64FromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserID(c *gin.Context) int64 {
	id, _ := getInt64FromCtx(c, "user_id")
	return id
}
