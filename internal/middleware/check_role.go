package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

// CheckRole protects an endpoint from users outside the given roles.
// Attaching it at route registration keeps the required role declarative
// instead of repeating inline conditionals per handler.
func CheckRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Message: err.Error(),
			})
			return
		}

		if !utilities.Contains(roles, user.Role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Message: fmt.Sprintf("User with role '%s' is not allowed to access this resource", user.Role),
			})
		}
	}
}
