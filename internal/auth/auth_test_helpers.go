package auth

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Sanya-exe/Job-Connect/internal/database"
	"github.com/Sanya-exe/Job-Connect/internal/utilities"
)

// GetAccessToken logs a seeded user in and returns the minted access token.
func GetAccessToken(
	t *testing.T,
	db *database.Service,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewLocalAuthHandler(db)
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/user/login", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %v", rec.Code, resp)
	}
	token, ok := resp["access_token"].(string)
	if !ok {
		return "", fmt.Errorf("access_token missing in login response")
	}
	return token, nil
}
