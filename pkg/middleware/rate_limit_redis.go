package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/socialhub/go-services/pkg/logger"
	"github.com/socialhub/go-services/pkg/metrics"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every replica.
// Each window allows floor(rps*window)+burst requests per key. When Redis
// cannot be reached the request is judged by an in-process bucket instead.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowedPerWindow := int64(rps*float64(windowSeconds)) + int64(burst)
	fallback := &limiterStore{rps: rps, burst: burst}
	retryAfter := strconv.Itoa(windowSeconds)

	return func(c *gin.Context) {
		key := "rl:" + rateKey(c)
		bucket := time.Now().Unix() / int64(windowSeconds)
		redisKey := key + ":" + strconv.FormatInt(bucket, 10)
		ctx := c.Request.Context()

		cnt, err := client.Incr(ctx, redisKey).Result()
		if err != nil {
			logger.Warnf("redis rate limit unavailable, using local limiter: %v", err)
			if !fallback.allow(key) {
				reject(c, "memory", "1")
				return
			}
			metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
			c.Next()
			return
		}
		if cnt == 1 {
			_ = client.Expire(ctx, redisKey, time.Duration(windowSeconds+1)*time.Second).Err()
		}
		if cnt > allowedPerWindow {
			reject(c, "redis", retryAfter)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
