package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/legumemart/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		Issuer:                "legume-test",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func signRaw(t *testing.T, claims *Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims(operatorID string) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "legume-test",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OperatorID: operatorID,
		TokenType:  TokenTypeAccess,
	}
}

func TestNewJWTService_DefaultsExpiration(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: testSecret})
	assert.Equal(t, 15*time.Minute, svc.AccessTokenExpiration())
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	op := Operator{ID: uuid.New(), Name: "Amina", Role: "packer"}

	token, expiresAt, err := svc.GenerateAccessToken(op)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, op.ID.String(), claims.OperatorID)
	assert.Equal(t, op.ID.String(), claims.Subject)
	assert.Equal(t, "Amina", claims.Name)
	assert.Equal(t, "packer", claims.Role)
	assert.Equal(t, "legume-test", claims.Issuer)

	id, err := claims.OperatorUUID()
	require.NoError(t, err)
	assert.Equal(t, op.ID, id)
	assert.False(t, claims.GetExpiresAtTime().IsZero())
}

func TestValidateAccessToken_Rejections(t *testing.T) {
	svc := newTestJWTService()
	operatorID := uuid.New().String()

	expired := validClaims(operatorID)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	notYet := validClaims(operatorID)
	notYet.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))

	wrongType := validClaims(operatorID)
	wrongType.TokenType = "refresh"

	wrongIssuer := validClaims(operatorID)
	wrongIssuer.Issuer = "someone-else"

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{"wrong secret", signRaw(t, validClaims(operatorID), jwt.SigningMethodHS256, []byte("another-secret-of-enough-length!!")), ErrInvalidToken},
		{"wrong algorithm", signRaw(t, validClaims(operatorID), jwt.SigningMethodHS512, []byte(testSecret)), ErrInvalidToken},
		{"expired", signRaw(t, expired, jwt.SigningMethodHS256, []byte(testSecret)), ErrExpiredToken},
		{"not yet valid", signRaw(t, notYet, jwt.SigningMethodHS256, []byte(testSecret)), ErrTokenNotYetValid},
		{"wrong issuer", signRaw(t, wrongIssuer, jwt.SigningMethodHS256, []byte(testSecret)), ErrInvalidToken},
		{"wrong type", signRaw(t, wrongType, jwt.SigningMethodHS256, []byte(testSecret)), ErrInvalidTokenType},
		{"missing operator", signRaw(t, validClaims(""), jwt.SigningMethodHS256, []byte(testSecret)), ErrMissingOperatorID},
		{"operator not uuid", signRaw(t, validClaims("amina"), jwt.SigningMethodHS256, []byte(testSecret)), ErrInvalidOperatorID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAccessToken(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJWTService_WithoutSecret(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{})

	_, _, err := svc.GenerateAccessToken(Operator{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrSigningKeyNotConfigured)

	_, err = svc.ValidateAccessToken("anything")
	assert.ErrorIs(t, err, ErrSigningKeyNotConfigured)
}
