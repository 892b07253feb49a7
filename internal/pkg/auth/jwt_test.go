package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodie-backend/internal/config"
)

func newManager() *JWTManager {
	return NewJWTManager(&config.Config{
		App:     config.AppConfig{Name: "Foodie Checkout"},
		Payment: config.PaymentConfig{AttemptSecret: "0123456789abcdef0123456789abcdef", AttemptTimeout: 15 * time.Minute},
	})
}

func TestAttemptTokenRoundTrip(t *testing.T) {
	j := newManager()
	token, exp, err := j.GenerateAttemptToken("att-1", "tab-1", 57900)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := j.ValidateAttemptToken(token)
	require.NoError(t, err)
	assert.Equal(t, "att-1", claims.AttemptID)
	assert.Equal(t, "tab-1", claims.SessionID)
	assert.Equal(t, int64(57900), claims.AmountMinor)
}

func TestAttemptTokenExpires(t *testing.T) {
	j := newManager()
	token, _, err := j.GenerateAttemptToken("att-1", "tab-1", 100)
	require.NoError(t, err)

	j.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	_, err = j.ValidateAttemptToken(token)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}

func TestAttemptTokenRejectsOtherSecret(t *testing.T) {
	token, _, err := newManager().GenerateAttemptToken("att-1", "tab-1", 100)
	require.NoError(t, err)

	other := newManager()
	other.secret = []byte("ffffffffffffffffffffffffffffffff")
	_, err = other.ValidateAttemptToken(token)
	assert.Error(t, err)
	assert.False(t, IsExpired(err))
}
