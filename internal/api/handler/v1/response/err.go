package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the JSON error body every endpoint renders.
type Err struct {
	err        error
	statusCode int

	Message string `json:"error"`
}

func (e *Err) Error() string {
	return e.Message
}

func NewErr(statusCode int, err error, message string) *Err {
	return &Err{
		err:        err,
		statusCode: statusCode,
		Message:    message,
	}
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, err, err.Error())
}

func ErrWrongCredentials(err error) *Err {
	return NewErr(http.StatusUnauthorized, err, "wrong credentials")
}

func ErrUnauthorized(err error) *Err {
	return NewErr(http.StatusUnauthorized, err, "unauthorized")
}

func ErrPermissionDenied(err error) *Err {
	return NewErr(http.StatusForbidden, err, "permission denied")
}

func ErrNotFound(resource, key string, value any) *Err {
	msg := fmt.Sprintf("%v not found by %v (%v)", resource, key, value)
	return NewErr(http.StatusNotFound, fmt.Errorf("%s", msg), msg)
}

func ErrConflict(err error) *Err {
	return NewErr(http.StatusConflict, err, err.Error())
}

func ErrInternalServerError(err error) *Err {
	return NewErr(http.StatusInternalServerError, err, "internal server error")
}

// RenderErr writes the error response and logs server-side failures with the
// request ID so they can be correlated with access logs.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.statusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", err.statusCode),
			zap.Error(err.err),
		)
	}

	ctx.AbortWithStatusJSON(err.statusCode, err)
}
