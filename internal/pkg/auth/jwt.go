package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey       string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
	TokenIssuer     string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// Claims defines JWT token content
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// GenerateTokenPair creates an access and refresh token pair. The refresh
// token is an opaque UUID persisted server side; only the access token is
// a signed JWT.
func (s *JWTService) GenerateTokenPair(userID uuid.UUID, email, role string) (accessToken, refreshToken string, expiresIn, refreshExpiresIn int, err error) {
	accessTokenExpiry := time.Now().Add(s.config.AccessTokenExp)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(accessTokenExpiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.config.TokenIssuer,
			Subject:   userID.String(),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err = token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", "", 0, 0, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken = uuid.New().String()

	expiresIn = int(s.config.AccessTokenExp.Seconds())
	refreshExpiresIn = int(s.config.RefreshTokenExp.Seconds())

	return accessToken, refreshToken, expiresIn, refreshExpiresIn, nil
}

// ValidateToken parses and validates an access token, returning its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// GetRefreshTokenExpiry returns refresh token expiry time
func (s *JWTService) GetRefreshTokenExpiry() time.Time {
	return time.Now().Add(s.config.RefreshTokenExp)
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}

	return "", ErrInvalidFormat
}
