package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims identify a signed-in customer.
type Claims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// JWTService issues and checks the access/refresh token pair.
type JWTService struct {
	secretKey     []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewJWTService(secretKey string, accessExpiry, refreshExpiry time.Duration) *JWTService {
	return &JWTService{
		secretKey:     []byte(secretKey),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

// GenerateAccessToken signs a short-lived token carrying the user's profile.
func (s *JWTService) GenerateAccessToken(u User) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.accessExpiry)

	claims := Claims{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Subject:   u.ID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// GenerateRefreshToken signs a long-lived token holding only the user ID.
func (s *JWTService) GenerateRefreshToken(userID string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.refreshExpiry)

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		Subject:   userID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	// Refresh tokens parse as Claims too, but carry no user fields.
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefreshToken returns the user ID the token was issued to.
func (s *JWTService) ValidateRefreshToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *JWTService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func (s *JWTService) AccessExpiry() time.Duration  { return s.accessExpiry }
func (s *JWTService) RefreshExpiry() time.Duration { return s.refreshExpiry }
