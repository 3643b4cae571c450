package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booking-api/pkg/errors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondWithSuccess writes body with success=true merged in
func RespondWithSuccess(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// RespondWithData writes {success:true, data:data}
func RespondWithData(c *gin.Context, status int, data interface{}) {
	RespondWithSuccess(c, status, gin.H{"data": data})
}

// RespondWithError maps err onto a status and writes the error envelope.
// Internal failures carry a generic message; the raw cause is attached
// only when gin is not in release mode.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}

	status := appErr.HTTPStatus()
	resp := ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
	}

	if status >= http.StatusInternalServerError {
		resp.Error = "Internal server error"
		if gin.Mode() != gin.ReleaseMode && appErr.Err != nil {
			resp.Details = appErr.Err.Error()
		}
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(status, resp)
}

// RespondWithMessage writes a failure envelope with an explicit status
func RespondWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   message,
	})
}
