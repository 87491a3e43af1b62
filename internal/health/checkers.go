package health

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DatabaseChecker pings the backing SQL database.
func DatabaseChecker(db *gorm.DB) Checker {
	return CheckerFunc(func(ctx context.Context) CheckResult {
		result := CheckResult{Name: "database", Healthy: true}
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			result.Healthy = false
			result.Error = err.Error()
		}
		return result
	})
}

// RedisChecker pings the cache backend.
func RedisChecker(client redis.UniversalClient) Checker {
	return CheckerFunc(func(ctx context.Context) CheckResult {
		result := CheckResult{Name: "redis", Healthy: true}
		if err := client.Ping(ctx).Err(); err != nil {
			result.Healthy = false
			result.Error = err.Error()
		}
		return result
	})
}
