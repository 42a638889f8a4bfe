package services

import (
	"context"
	"fmt"
	"time"

	"main/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

type RedisTokenBlacklist struct {
	Client *redis.Client
}

// TokenBlacklist is the global instance, set at startup when Redis is
// configured. When nil, logout still clears the cookie but tokens remain
// valid until they expire.
var TokenBlacklist *RedisTokenBlacklist

// NewTokenBlacklist creates a new Redis-backed token blacklist
func NewTokenBlacklist(redisURL string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTokenBlacklist{Client: client}, nil
}

// BlacklistToken marks an access token invalid until its natural expiry.
func BlacklistToken(cfg *config.Config, tokenString string) error {
	if TokenBlacklist == nil {
		return nil
	}
	return TokenBlacklist.blacklist(cfg, tokenString)
}

func (tb *RedisTokenBlacklist) blacklist(cfg *config.Config, tokenString string) error {
	// Expired tokens are still parseable here; claims validation is skipped
	// because the only thing needed is the exp claim for the TTL.
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	expiration := time.Now().Add(24 * time.Hour)
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if exp, ok := claims["exp"].(float64); ok {
			expiration = time.Unix(int64(exp), 0)
		}
	}

	ttl := time.Until(expiration)
	if ttl <= 0 {
		// Already expired, nothing to block.
		return nil
	}

	ctx := context.Background()
	key := "blacklist:access:" + tokenString
	return tb.Client.Set(ctx, key, "true", ttl).Err()
}

// IsTokenBlacklisted checks if a token has been invalidated by a logout.
func IsTokenBlacklisted(tokenString string) bool {
	if TokenBlacklist == nil {
		return false
	}

	ctx := context.Background()
	n, err := TokenBlacklist.Client.Exists(ctx, "blacklist:access:"+tokenString).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Close closes the Redis connection
func (tb *RedisTokenBlacklist) Close() error {
	return tb.Client.Close()
}
