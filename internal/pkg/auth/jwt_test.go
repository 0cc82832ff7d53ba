package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	service := newTestJWTService(time.Hour)
	userID := uuid.New()

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := service.GenerateTokenPair(userID, "jane@example.com", "student")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, int(time.Hour.Seconds()), expiresIn)
	assert.Equal(t, int((24 * time.Hour).Seconds()), refreshExpiresIn)

	claims, err := service.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	service := newTestJWTService(time.Hour)
	accessToken, _, _, _, err := service.GenerateTokenPair(uuid.New(), "jane@example.com", "student")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
	})
	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	service := newTestJWTService(-time.Minute)
	accessToken, _, _, _, err := service.GenerateTokenPair(uuid.New(), "jane@example.com", "student")
	require.NoError(t, err)

	_, err = service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbageToken(t *testing.T) {
	service := newTestJWTService(time.Hour)

	_, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing prefix", "abc123", "", true},
		{"wrong scheme", "Basic abc123", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetRefreshTokenExpiry(t *testing.T) {
	service := newTestJWTService(time.Hour)
	expiry := service.GetRefreshTokenExpiry()
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiry, time.Minute)
}
