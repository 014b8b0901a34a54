package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	PostsListPrefix   = "posts:list:%s:%s:%s:%d:%d"
	RankingKeyPrefix  = "ranking:%d"
	postsListScanGlob = "posts:list:*"
)

const (
	UserTTL    = 5 * time.Minute
	PostTTL    = 30 * time.Minute
	ListTTL    = 1 * time.Minute
	RankingTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// PostsListKey identifies one page of an anonymous post listing.
func PostsListKey(category, status, sort string, page, perPage int) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf(PostsListPrefix, category, status, sort, page, perPage)
}

func RankingKey(limit int) string {
	return fmt.Sprintf(RankingKeyPrefix, limit)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	InvalidatePostsList(ctx)
}

// InvalidatePostsList drops every cached listing page. Listing keys are
// parameterized, so they are swept by pattern.
func InvalidatePostsList(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, postsListScanGlob, 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
