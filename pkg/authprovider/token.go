package authprovider

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// idTokenClaims are the claims of a session ID token
type idTokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func issueIDToken(secret []byte, issuer string, account Account, now time.Time, ttl time.Duration) (string, error) {
	claims := idTokenClaims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   account.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign id token: %w", err)
	}
	return signed, nil
}

// verifyIDToken checks signature and expiry and returns the subject
func verifyIDToken(secret []byte, tokenString string, now func() time.Time) (string, error) {
	claims := &idTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", NewError(CodeUserTokenExpired, "the session token has expired, sign in again")
	}
	if err != nil {
		return "", &Error{Code: CodeInvalidUserToken, Message: "the session token is invalid", Err: err}
	}
	return claims.Subject, nil
}

// tokenExpiry reads the exp claim without verifying the signature. Tokens
// issued by a hosted provider are verified there, not here.
func tokenExpiry(tokenString string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
