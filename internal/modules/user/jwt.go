package user

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the claim set carried by issued session tokens.
type SessionClaims struct {
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies signed, stateless session tokens.
// The signing secret is loaded once at startup and never rotated.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	logger   *slog.Logger
	now      func() time.Time
}

// NewTokenIssuer creates a TokenIssuer with the given symmetric secret.
func NewTokenIssuer(secret, issuer, audience string, logger *slog.Logger) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateToken builds and signs a session token for the given user identity.
// Signing with a valid key cannot fail under normal operation; the error
// return exists only for defense at the jwt library boundary.
func (t *TokenIssuer) CreateToken(userID int64, role Role) (string, error) {
	now := t.now()
	claims := &SessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// VerifyToken validates the signature and expiry of a session token and
// returns its claims. Expired and malformed tokens are logged with distinct
// messages but both yield ErrInvalidToken; callers treat them identically.
func (t *TokenIssuer) VerifyToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			t.logger.Warn("token expired", "error", err)
		} else {
			t.logger.Warn("invalid token", "error", err)
		}
		return nil, ErrInvalidToken.WithCause(err)
	}
	if !token.Valid {
		t.logger.Warn("invalid token")
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetPayload decodes a token for introspection. It returns nil on any failure.
func (t *TokenIssuer) GetPayload(tokenString string) *SessionClaims {
	claims, err := t.VerifyToken(tokenString)
	if err != nil {
		return nil
	}
	return claims
}
