package resputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/atelier-hq/workplane/pkg/domain"
)

// Response is the uniform envelope returned by every endpoint.
type Response[T any] struct {
	Code ErrorCode `json:"code"`
	Data T         `json:"data"`
	Msg  string    `json:"msg"`
}

func wrapResponse(c *gin.Context, httpCode int, msg string, data any, code ErrorCode) {
	c.JSON(httpCode, gin.H{
		"code": code,
		"data": data,
		"msg":  msg,
	})
}

func Success(c *gin.Context, data any) {
	wrapResponse(c, http.StatusOK, "", data, OK)
}

func Error(c *gin.Context, msg string, errorCode ErrorCode) {
	wrapResponse(c, http.StatusInternalServerError, msg, nil, errorCode)
}

func HTTPError(c *gin.Context, httpCode int, msg string, errorCode ErrorCode) {
	wrapResponse(c, httpCode, msg, nil, errorCode)
}

func BadRequestError(c *gin.Context, msg string) {
	wrapResponse(c, http.StatusBadRequest, msg, nil, InvalidRequest)
}

// DomainError translates core outcomes into transport responses.
// Unknown errors become a generic 500; the detail stays server-side.
func DomainError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		HTTPError(c, http.StatusUnauthorized, msg, TokenInvalid)
	case errors.Is(err, domain.ErrForbidden):
		HTTPError(c, http.StatusForbidden, msg, UserNotAllowed)
	case errors.Is(err, domain.ErrNotFound):
		HTTPError(c, http.StatusNotFound, msg, ResourceNotFound)
	case errors.Is(err, domain.ErrBadRequest):
		BadRequestError(c, msg)
	default:
		klog.ErrorS(err, "unexpected error", "path", c.FullPath())
		Error(c, "Internal error", NotSpecified)
	}
}
