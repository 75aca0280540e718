package service

import (
	"context"

	"reviewhub/internal/cache"
	"reviewhub/internal/httpapi/repository"
)

// RatingAggregator keeps a title's displayed rating consistent with its
// review set. The value is computed lazily from live reviews and memoized
// in Redis; every review write invalidates the title's entry.
//
// The exposed rating is the mean score truncated toward zero, and absent
// (nil) when the title has no reviews. Zero is never reported for an
// empty review set.
type RatingAggregator struct {
	reviews repository.ReviewRepository
	cache   *cache.RatingCache
}

func NewRatingAggregator(reviews repository.ReviewRepository, ratingCache *cache.RatingCache) *RatingAggregator {
	return &RatingAggregator{reviews: reviews, cache: ratingCache}
}

// TitleRating returns the current rating for one title.
func (a *RatingAggregator) TitleRating(ctx context.Context, titleID int64) (*int, error) {
	if rating, ok := a.cache.Get(ctx, titleID); ok {
		return &rating, nil
	}

	avg, err := a.reviews.AverageScore(ctx, titleID)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return nil, nil
	}

	rating := int(*avg)
	a.cache.Set(ctx, titleID, rating)
	return &rating, nil
}

// TitleRatings batches the computation for listings; titles with no
// reviews are absent from the map. The cache is bypassed here, one
// aggregation query beats N cache round trips.
func (a *RatingAggregator) TitleRatings(ctx context.Context, titleIDs []int64) (map[int64]int, error) {
	averages, err := a.reviews.AverageScores(ctx, titleIDs)
	if err != nil {
		return nil, err
	}
	ratings := make(map[int64]int, len(averages))
	for id, avg := range averages {
		ratings[id] = int(avg)
	}
	return ratings, nil
}

// Invalidate drops the memoized rating after a review write.
func (a *RatingAggregator) Invalidate(ctx context.Context, titleID int64) error {
	return a.cache.Invalidate(ctx, titleID)
}
