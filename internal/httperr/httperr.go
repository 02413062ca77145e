package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPError is the wire shape of every error response.
// Detail is optional and never carries internal error text.
type HTTPError struct {
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

func Write(c *gin.Context, status int, message string) {
	c.JSON(status, HTTPError{Message: message})
}

func WriteDetail(c *gin.Context, status int, message, detail string) {
	c.JSON(status, HTTPError{Message: message, Detail: detail})
}

func BadRequest(c *gin.Context, message string) {
	Write(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Write(c, http.StatusNotFound, message)
}

func Unauthorized(c *gin.Context, message string) {
	Write(c, http.StatusUnauthorized, message)
}

func Conflict(c *gin.Context, message string) {
	Write(c, http.StatusConflict, message)
}

func Internal(c *gin.Context, message string) {
	Write(c, http.StatusInternalServerError, message)
}

func BadGateway(c *gin.Context, message string) {
	Write(c, http.StatusBadGateway, message)
}
