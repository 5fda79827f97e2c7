package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body every handler maps failures to
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorResponse{Error: message})
}

// RespondJSON sends a payload as-is.
func RespondJSON(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, data)
}

// RespondSuccess sends a 200 response with data.
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 response with data.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}
