package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostPerformanceKeyPrefix = "perf:post:%d"
	UserAnalyticsKeyPrefix   = "analytics:user:%d"
)

const (
	PostPerformanceTTL = 5 * time.Minute
	UserAnalyticsTTL   = 2 * time.Minute
)

func PostPerformanceKey(postID uint) string {
	return fmt.Sprintf(PostPerformanceKeyPrefix, postID)
}

func UserAnalyticsKey(userID uint) string {
	return fmt.Sprintf(UserAnalyticsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached performance view for a post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostPerformanceKey(postID))
}

// InvalidateUserAnalytics drops the cached analytics view for a user.
func InvalidateUserAnalytics(ctx context.Context, userID uint) {
	Invalidate(ctx, UserAnalyticsKey(userID))
}
