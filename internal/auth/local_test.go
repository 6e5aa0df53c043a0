package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

var testDB *database.Service
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// Helper: validate access token in response and return claims.
func assertValidAccessToken(t *testing.T, resp map[string]interface{}) *jwt.RegisteredClaims {
	t.Helper()
	tokenStr, ok := resp["access_token"].(string)
	assert.True(t, ok, "access_token not a string")
	token, err := ValidatedToken(tokenStr)
	assert.NoError(t, err)
	assert.True(t, token.Valid)
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	assert.True(t, ok, "claims type mismatch")
	assert.NotEmpty(t, claims.Subject, "token subject empty")
	return claims
}

func TestRegisterJobSeeker(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]interface{}{
		"name":     "Carol Seeker",
		"email":    "carol@example.com",
		"phone":    "0811111111",
		"password": "SuperSecret1",
		"role":     "Job Seeker",
		"skillset": []string{"Go", "Docker"},
	}

	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/user/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	claims := assertValidAccessToken(t, resp)
	assert.Equal(t, JwtIssuer, claims.Issuer)

	userMap, ok := resp["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Job Seeker", userMap["role"])
	// password hash never leaves the server
	_, leaked := userMap["password"]
	assert.False(t, leaked)
}

func TestRegisterJobSeekerWithoutSkillset(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]interface{}{
		"name":     "Dave Seeker",
		"email":    "dave@example.com",
		"phone":    "0822222222",
		"password": "SuperSecret1",
		"role":     "Job Seeker",
	}

	rec, _, err := utilities.SimulateAPICall(handler.RegisterHandler, "/user/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEmployerWithSkillset(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]interface{}{
		"name":     "Eve Employer",
		"email":    "eve@example.com",
		"phone":    "0833333333",
		"password": "SuperSecret1",
		"role":     "Employer",
		"skillset": []string{"Hiring"},
	}

	rec, _, err := utilities.SimulateAPICall(handler.RegisterHandler, "/user/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRejectsBadFields(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	base := map[string]interface{}{
		"name":     "Frank Employer",
		"email":    "frank@example.com",
		"phone":    "0844444444",
		"password": "SuperSecret1",
		"role":     "Employer",
	}

	cases := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"short name", "name", "ab"},
		{"alpha phone", "phone", "08error44"},
		{"short password", "password", "short"},
		{"unknown role", "role", "Admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := map[string]interface{}{}
			for k, v := range base {
				payload[k] = v
			}
			payload[tc.key] = tc.value

			rec, _, err := utilities.SimulateAPICall(handler.RegisterHandler, "/user/register", http.MethodPost, payload)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	payload := map[string]interface{}{
		"name":     "Dup Seeker",
		"email":    database.TestUserSeeker1.Email,
		"phone":    "0855555555",
		"password": "SuperSecret1",
		"role":     "Job Seeker",
		"skillset": []string{"Go"},
	}

	rec, resp, err := utilities.SimulateAPICall(handler.RegisterHandler, "/user/register", http.MethodPost, payload)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["success"])
}

func TestLoginSuccess(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/user/login", http.MethodPost, map[string]string{
		"email":    database.TestUserSeeker1.Email,
		"password": database.TestSeedPassword,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	claims := assertValidAccessToken(t, resp)
	assert.Equal(t, database.TestUserSeeker1.ID.String(), claims.Subject)

	// token is mirrored into an httpOnly cookie
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == AccessTokenCookie && c.Value != "" {
			found = c.HttpOnly
		}
	}
	assert.True(t, found, "httpOnly token cookie not set")
}

func TestLoginWrongPassword(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LoginHandler, "/user/login", http.MethodPost, map[string]string{
		"email":    database.TestUserSeeker1.Email,
		"password": "not-the-password",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, _, err := utilities.SimulateAPICall(handler.LoginHandler, "/user/login", http.MethodPost, map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever123",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
