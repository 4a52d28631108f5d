package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/service"
	"github.com/rs/zerolog/log"
)

// contextUserKey is where the resolved user lands in the gin context.
const contextUserKey = "currentUser"

// Authenticated resolves the identity headers set by the upstream auth proxy
// into an internal user, creating the account on first contact. The proxy has
// already verified the session; requests without a subject are rejected.
func Authenticated(userSvc service.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		externalID := ctx.GetHeader("X-Auth-Subject")
		if externalID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authentication required"})
			return
		}

		user, err := userSvc.EnsureUser(externalID, ctx.GetHeader("X-Auth-Email"), ctx.GetHeader("X-Auth-Name"))
		if err != nil {
			log.Error().Err(err).Str("externalID", externalID).Msg("Failed to resolve user")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "failed to resolve identity"})
			return
		}

		ctx.Set(contextUserKey, user)
		ctx.Next()
	}
}

// AdminOnly must run after Authenticated.
func AdminOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		if user == nil || user.Role != model.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "admin access required"})
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the user resolved by Authenticated, or nil.
func CurrentUser(ctx *gin.Context) *model.User {
	val, ok := ctx.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := val.(*model.User)
	if !ok {
		return nil
	}
	return user
}
