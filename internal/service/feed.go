package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"instaclone/backend/internal/cache"
	"instaclone/backend/internal/metrics"
	apperrors "instaclone/backend/pkg/errors"
	"instaclone/backend/pkg/logger"
)

// FeedService renders the friends feed of a viewer. Rendered pages are cached
// per viewer and page for a fixed TTL and are never invalidated early.
type FeedService struct {
	posts    *PostService
	cache    cache.Cache
	pageSize int
	ttl      time.Duration
}

func NewFeedService(posts *PostService, c cache.Cache, pageSize int, ttl time.Duration) *FeedService {
	return &FeedService{posts: posts, cache: c, pageSize: pageSize, ttl: ttl}
}

func feedCacheKey(viewerID uint, page int) string {
	return fmt.Sprintf("feed:%d:page:%d", viewerID, page)
}

// Page returns the encoded JSON body of one feed page.
func (s *FeedService) Page(ctx context.Context, viewerID uint, page int) ([]byte, error) {
	if page < 1 {
		return nil, apperrors.NotFound("Invalid page.")
	}
	key := feedCacheKey(viewerID, page)

	body, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.RecordFeedCacheLookup(true)
		return body, nil
	case !errors.Is(err, cache.ErrMiss):
		logger.Warn("Feed cache lookup failed", "key", key, "error", err)
	}
	metrics.RecordFeedCacheLookup(false)

	posts, total, err := s.posts.posts.ListFeed(ctx, viewerID, page, s.pageSize)
	if err != nil {
		return nil, dbError(err)
	}
	if page > 1 && page > totalPages(total, s.pageSize) {
		return nil, apperrors.NotFound("Invalid page.")
	}

	views := make([]PostDetailView, 0, len(posts))
	for _, post := range posts {
		view, err := s.posts.detailView(ctx, post)
		if err != nil {
			return nil, err
		}
		if post.HideLikeAndViewCounts {
			view.LikesCount = nil
		}
		if post.TurnOffComments {
			view.CommentsCount = nil
		}
		views = append(views, view)
	}

	body, err = json.Marshal(NewPaginatedResponse(views, total, page, s.pageSize))
	if err != nil {
		return nil, apperrors.Internal(err, "failed to encode feed")
	}

	if err := s.cache.Set(ctx, key, body, s.ttl); err != nil {
		logger.Warn("Feed cache store failed", "key", key, "error", err)
	}
	return body, nil
}
