package auth

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/testutil"
)

func logoutRouter(bl JwtBlacklistStore) *gin.Engine {
	r := gin.New()
	lc := NewLogoutController(bl)
	r.GET("/user/logout", lc.LogoutHandler)
	return r
}

func TestLogoutClearsCookie(t *testing.T) {
	r := logoutRouter(NewInMemoryBlacklistStore())

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/user/logout", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["success"])

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == AccessTokenCookie {
			cleared = c.Value == "" && c.MaxAge < 0
		}
	}
	assert.True(t, cleared, "token cookie not cleared")
}

func TestLogoutRevokesBearerToken(t *testing.T) {
	bl := NewInMemoryBlacklistStore()
	r := logoutRouter(bl)

	token, err := GetAccessToken(t, testDB, database.TestUserSeeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/user/logout", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	revoked, err := bl.IsBlacklisted(token)
	assert.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogoutIgnoresGarbageToken(t *testing.T) {
	bl := NewInMemoryBlacklistStore()
	r := logoutRouter(bl)

	rec, _ := testutil.MakeJSONRequest(nil, "garbage", r, "/user/logout", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	revoked, err := bl.IsBlacklisted("garbage")
	assert.NoError(t, err)
	assert.False(t, revoked, "an invalid token must not enter the blacklist")
}
