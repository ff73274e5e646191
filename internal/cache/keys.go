package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserProfileKeyPrefix = "user:%d:profile"
	BlacklistKeyPrefix   = "blacklist:%s"
	OAuthStateKeyPrefix  = "oauth_state:%s"
)

const (
	UserProfileTTL = 5 * time.Minute
)

func UserProfileKey(userID uint) string {
	return fmt.Sprintf(UserProfileKeyPrefix, userID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistKeyPrefix, jti)
}

func OAuthStateKey(nonce string) string {
	return fmt.Sprintf(OAuthStateKeyPrefix, nonce)
}

// Invalidate deletes key, ignoring a nil client.
func Invalidate(ctx context.Context, rdb *redis.Client, key string) {
	if rdb != nil {
		rdb.Del(ctx, key)
	}
}

// InvalidateUser drops every cached view of a user.
func InvalidateUser(ctx context.Context, rdb *redis.Client, userID uint) {
	Invalidate(ctx, rdb, UserProfileKey(userID))
}
