package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

// LogoutController handles user logout by clearing the token cookie and
// blacklisting the bearer token when one is presented.
type LogoutController struct {
	BlacklistStore JwtBlacklistStore
}

// NewLogoutController creates a new instance of LogoutController
func NewLogoutController(blacklistStore JwtBlacklistStore) *LogoutController {
	return &LogoutController{
		BlacklistStore: blacklistStore,
	}
}

// LogoutHandler clears the token cookie. The endpoint is unauthenticated,
// but a valid bearer token sent along is revoked for its remaining
// lifetime so it can't be replayed after logout.
// @Summary Logout, clearing the token cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utilities.MessageResponse "Logged out"
// @Failure 500 {object} utilities.ErrorResponse "Failed to revoke token"
// @Router /user/logout [get]
func (lc *LogoutController) LogoutHandler(c *gin.Context) {

	c.SetCookie(AccessTokenCookie, "", -1, "/", "", false, true)

	tokenString, err := utilities.ExtractBearerToken(c)
	if err == nil {
		token, vErr := ValidatedToken(tokenString)
		if vErr == nil && token.Valid {
			exp := time.Now().Add(TokenTTL())
			if claims, ok := token.Claims.(*jwt.RegisteredClaims); ok && claims.ExpiresAt != nil {
				exp = claims.ExpiresAt.Time
			}
			if err := lc.BlacklistStore.AddToBlacklist(tokenString, exp); err != nil {
				c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Message: "Failed to logout"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, utilities.Message("Successfully logged out"))
}
