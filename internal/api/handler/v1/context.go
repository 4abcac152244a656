package v1

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/pulse-api/internal/api/handler/v1/response"
)

// contextKeyUserID must match what the auth middleware sets.
const contextKeyUserID = "userID"

func currentUserID(ctx *gin.Context) (uint, *response.Err) {
	v, ok := ctx.Get(contextKeyUserID)
	if !ok {
		return 0, response.ErrUnauthorized(errors.New("no authenticated user in context"))
	}

	userID, ok := v.(uint)
	if !ok {
		return 0, response.ErrUnauthorized(errors.New("malformed user ID in context"))
	}

	return userID, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, response.ErrBadRequest(errors.New("invalid " + name))
	}

	return uint(id), nil
}
