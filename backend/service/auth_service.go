package service

import (
	"context"
	"errors"
	"time"

	"uplink/backend/common"
	"uplink/backend/model"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "uplink"

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     int    `json:"role"`
	jwt.RegisteredClaims
}

func generateWithSecret(user *model.User, secret string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func validateWithSecret(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func GenerateToken(user *model.User) (string, error) {
	return generateWithSecret(user, common.JWTSecret, common.AccessTokenDuration)
}

func ValidateToken(tokenString string) (*Claims, error) {
	return validateWithSecret(tokenString, common.JWTSecret)
}

func GenerateRefreshToken(user *model.User) (string, error) {
	return generateWithSecret(user, common.JWTRefreshSecret, common.RefreshTokenDuration)
}

func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return validateWithSecret(tokenString, common.JWTRefreshSecret)
}

// BlacklistToken marks an access token as invalidated until it would have
// expired anyway. Without Redis logout still clears the session; the
// short-lived access token simply ages out.
func BlacklistToken(ctx context.Context, tokenString string) error {
	if !common.RedisEnabled || common.RDB == nil {
		return nil
	}
	claims, err := ValidateToken(tokenString)
	if err != nil {
		// Already invalid, nothing to blacklist.
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return common.RDB.Set(ctx, "jwt:blacklist:"+tokenString, "1", ttl).Err()
}

// IsTokenBlacklisted is consulted by the auth middleware on every request
// when Redis is available.
func IsTokenBlacklisted(ctx context.Context, tokenString string) bool {
	if !common.RedisEnabled || common.RDB == nil {
		return false
	}
	n, err := common.RDB.Exists(ctx, "jwt:blacklist:"+tokenString).Result()
	return err == nil && n > 0
}
