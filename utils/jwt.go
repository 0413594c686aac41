package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessIssuer  = "delivery-backend"
	refreshIssuer = "delivery-refresh"

	AccessTokenTTL  = 2 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type Claims struct {
	UserID          uuid.UUID  `json:"user_id"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	EstablishmentID *uuid.UUID `json:"establishment_id,omitempty"`
	jwt.RegisteredClaims
}

func getJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("FATAL: JWT_SECRET environment variable is not set. Refusing to start with an insecure configuration.")
	}
	return secret
}

func signClaims(userID uuid.UUID, email, role string, establishmentID *uuid.UUID, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:          userID,
		Email:           email,
		Role:            role,
		EstablishmentID: establishmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(getJWTSecret()))
}

func GenerateToken(userID uuid.UUID, email, role string, establishmentID *uuid.UUID) (string, error) {
	return signClaims(userID, email, role, establishmentID, accessIssuer, AccessTokenTTL)
}

// GenerateRefreshToken signs a long-lived token. Callers persist it so it
// can be revoked.
func GenerateRefreshToken(userID uuid.UUID, email, role string, establishmentID *uuid.UUID) (string, error) {
	return signClaims(userID, email, role, establishmentID, refreshIssuer, RefreshTokenTTL)
}

func parse(tokenString, issuer string) (*Claims, error) {
	secret := getJWTSecret()

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// ValidateToken accepts access tokens only.
func ValidateToken(tokenString string) (*Claims, error) {
	return parse(tokenString, accessIssuer)
}

func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return parse(tokenString, refreshIssuer)
}
