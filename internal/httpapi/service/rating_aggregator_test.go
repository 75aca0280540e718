package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func avgPtr(v float64) *float64 { return &v }

func TestTitleRating(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		avg  *float64
		want *int
	}{
		{"no reviews means no rating", nil, nil},
		{"single review", avgPtr(8), intPtr(8)},
		{"mean truncates toward zero", avgPtr(6.5), intPtr(6)},
		{"mean just below the next integer", avgPtr(7.99), intPtr(7)},
		{"exact integer mean", avgPtr(5.0), intPtr(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockReviewRepository)
			if tt.avg == nil {
				repo.On("AverageScore", ctx, int64(1)).Return(nil, nil)
			} else {
				repo.On("AverageScore", ctx, int64(1)).Return(tt.avg, nil)
			}

			agg := NewRatingAggregator(repo, nil)
			rating, err := agg.TitleRating(ctx, 1)
			assert.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, rating)
			} else {
				assert.NotNil(t, rating)
				assert.Equal(t, *tt.want, *rating)
			}
		})
	}
}

func TestTitleRatings(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReviewRepository)
	repo.On("AverageScores", ctx, []int64{1, 2, 3}).Return(map[int64]float64{
		1: 6.5,
		3: 9.0,
	}, nil)

	agg := NewRatingAggregator(repo, nil)
	ratings, err := agg.TitleRatings(ctx, []int64{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 6, 3: 9}, ratings)
	// title 2 has no reviews and is simply absent
	_, ok := ratings[2]
	assert.False(t, ok)
}

func intPtr(v int) *int { return &v }
