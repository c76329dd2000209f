package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	RFC3339MilliZ = "2006-01-02T15:04:05.000Z07:00"
)

func RespSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

func RespSuccessStr(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: msg,
	})
}

func RespSuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// RespError appends the underlying error to the message when present.
func RespError(c *gin.Context, statusCode int, msg string, err error) {
	errMsg := msg
	if err != nil {
		errMsg = msg + ": " + err.Error()
	}
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: errMsg,
	})
}

func RespErrorStr(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: msg,
	})
}

func RespErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: msg,
		Data:    data,
	})
}

func FormatTime(t time.Time) string {
	return t.Format(RFC3339MilliZ)
}
