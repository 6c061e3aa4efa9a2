package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/infrastructure/auth"
)

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)

	token, err := manager.Generate("teller-7")
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "teller-7", claims.Operator)
	assert.Equal(t, "teller-7", claims.Subject)
}

func TestJWTManagerGenerateRequiresOperator(t *testing.T) {
	t.Parallel()

	_, err := auth.NewJWTManager("secret", time.Minute).Generate("")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	expiredClaims := auth.Claims{
		Operator: "expired",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}

	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = manager.Verify(expiredToken)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)

	_, err = auth.NewJWTManager("other-secret", time.Minute).Verify(expiredToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = manager.Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, expiredClaims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = manager.Verify(noneToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
