package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/pulse-api/internal/api/handler/v1/response"
	"github.com/campus-pulse/pulse-api/internal/pkg/jwthelper"
)

// ContextKeyUserID is where VerifyJWT stores the authenticated user's ID.
const ContextKeyUserID = "userID"

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("missing bearer token")))
			return
		}

		claims, err := jwthelper.ParseToken([]byte(a.signingKey), token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		// Tokens are bound to the user agent they were issued to.
		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("user agent mismatch")))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}
