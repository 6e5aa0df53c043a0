// Package auth contain token minting/validation and credential handlers
package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// SECRET_KEY signs every access token.
var SECRET_KEY = os.Getenv("SECRET_KEY")

// JwtIssuer is the expected issuer claim on every token this service mints.
const JwtIssuer = "Job-Connect"

// TokenTTL reads the access token lifetime from JWT_EXPIRE_HOURS,
// falling back to one hour.
func TokenTTL() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil || hours <= 0 {
		return time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// GenerateStandardToken mints a signed HS256 access token for the given
// user id and returns it with its expiry instant.
func GenerateStandardToken(id uuid.UUID) (string, time.Time, error) {

	expiresAt := time.Now().Add(TokenTTL())

	generatedAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    JwtIssuer,
		Subject:   id.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := generatedAccessToken.SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("Failed to sign token: %s", err)
	}

	return signedToken, expiresAt, nil
}

// ValidatedToken parses and verifies an encoded access token.
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(SECRET_KEY), nil
	})
}
