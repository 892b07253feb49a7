// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/foodie-backend/internal/config"
)

const attemptTokenType = "payment_attempt"

// AttemptClaims bind a payment attempt to the tab that started it
type AttemptClaims struct {
	AttemptID   string `json:"attempt_id"`
	SessionID   string `json:"session_id"`
	AmountMinor int64  `json:"amount"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager signs and checks payment-attempt tokens
type JWTManager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.Payment.AttemptSecret),
		issuer: cfg.App.Name,
		expiry: cfg.Payment.AttemptTimeout,
		now:    time.Now,
	}
}

// GenerateAttemptToken issues a token that expires with the attempt
func (j *JWTManager) GenerateAttemptToken(attemptID, sessionID string, amountMinor int64) (string, time.Time, error) {
	now := j.now().UTC()
	expiresAt := now.Add(j.expiry)

	claims := &AttemptClaims{
		AttemptID:   attemptID,
		SessionID:   sessionID,
		AmountMinor: amountMinor,
		TokenType:   attemptTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   fmt.Sprintf("attempt:%s", attemptID),
			ID:        attemptID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign attempt token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateAttemptToken parses a token and checks its signature, expiry and type
func (j *JWTManager) ValidateAttemptToken(tokenString string) (*AttemptClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AttemptClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithIssuer(j.issuer))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*AttemptClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.TokenType != attemptTokenType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", attemptTokenType, claims.TokenType)
	}
	return claims, nil
}

// IsExpired reports whether err came from an expired token
func IsExpired(err error) bool {
	return err != nil && errors.Is(err, jwt.ErrTokenExpired)
}
