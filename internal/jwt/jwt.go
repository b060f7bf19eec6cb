package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"timesheet-service/internal/config"
	"timesheet-service/internal/nonce"
)

var (
	ErrInvalidNonce     = errors.New("invalid nonce")
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

// SessionClaims is the signed session cookie payload. The jti doubles as a
// revocation nonce: logout consumes it and the token dies with it.
type SessionClaims struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

func sessionTTL() uint {
	// Hours to seconds
	return config.Cfg.SessionTTL * 60 * 60
}

func NewSessionClaims(employeeID, name string) SessionClaims {
	return SessionClaims{
		EmployeeID:       employeeID,
		Name:             name,
		RegisteredClaims: mustCreateRegisteredClaim(sessionTTL()),
	}
}

// DecodeSessionJWT validates the token signature and checks the jti against
// the nonce store, so revoked sessions fail even before expiry. The context
// reaches the nonce store, which may hit the database.
func DecodeSessionJWT(ctx context.Context, tokenString string) (*SessionClaims, error) {
	claims, err := decodeJWT(tokenString, &SessionClaims{})
	if err != nil {
		return nil, err
	}
	if !nonce.Store.Exists(ctx, claims.ID) {
		return nil, ErrInvalidNonce
	}
	return claims, nil
}

func mustCreateRegisteredClaim(ttl uint) jwt.RegisteredClaims {
	n, err := nonce.Nonce(ttl + 10) // nonce TTL is slightly longer than token TTL to allow for clock skew
	if err != nil {
		panic(fmt.Sprintf("failed to generate nonce: %v", err))
	}

	return jwt.RegisteredClaims{
		ID:        n,
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwtExpiry(ttl),
	}
}

// Convert TTL to time in future
func tokenTTL(ttl uint) time.Time {
	if ttl <= 0 {
		panic("invalid token TTL")
	}
	return time.Now().UTC().Add(time.Duration(ttl) * time.Second)
}

func jwtExpiry(ttl uint) *jwt.NumericDate {
	expiry := tokenTTL(ttl)
	return jwt.NewNumericDate(expiry)
}

// Generic JWT token generation function
func GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	JWTSecret := []byte(config.Cfg.Secret)
	return token.SignedString(JWTSecret)
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (interface{}, error) {
		JWTSecret := []byte(config.Cfg.Secret)
		return JWTSecret, nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
