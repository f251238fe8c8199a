package utils

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("token is not valid")
)

type TokenData struct {
	Sub    string
	Email  string
	Groups []string
	Exp    int64
}

func (t *TokenData) InGroup(group string) bool {
	for _, g := range t.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// JWKSVerifier validates RS/ES signed administrator tokens against the
// public keys published at a JWKS endpoint.
type JWKSVerifier struct {
	jwks keyfunc.Keyfunc
}

func NewJWKSVerifier(jwksURL string) (*JWKSVerifier, error) {
	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return &JWKSVerifier{jwks: jwks}, nil
}

// Verify parses AND validates the signature locally.
// It returns the data if the token is authentic and unexpired.
func (v *JWKSVerifier) Verify(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(clean, v.jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}
	return tokenDataFromClaims(claims), nil
}

// StaticTokenVerifier accepts a single shared secret. Meant for local
// setups where no identity provider is available.
type StaticTokenVerifier struct {
	Token string
}

func (s *StaticTokenVerifier) Verify(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, ErrMissingToken
	}

	if s.Token == "" || subtle.ConstantTimeCompare([]byte(clean), []byte(s.Token)) != 1 {
		return nil, ErrInvalidToken
	}
	return &TokenData{Sub: "static-admin"}, nil
}

func BearerToken(ctx echo.Context) string {
	return ctx.Request().Header.Get(echo.HeaderAuthorization)
}

func tokenDataFromClaims(claims jwt.MapClaims) *TokenData {
	return &TokenData{
		Sub:    getValue(claims, "sub"),
		Email:  getValue(claims, "email"),
		Groups: getStrings(claims, "cognito:groups", "groups"),
		Exp:    getInt64(claims, "exp"),
	}
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

// getStrings reads the first present claim among keys as a list of strings.
func getStrings(claims jwt.MapClaims, keys ...string) []string {
	for _, key := range keys {
		switch val := claims[key].(type) {
		case []any:
			out := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return val
		case string:
			return strings.Fields(val)
		}
	}
	return nil
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
