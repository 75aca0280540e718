package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

// CreateReviewRequest for POST /api/v1/titles/:title_id/reviews
type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewRequest for PATCH; nil fields are left untouched
type UpdateReviewRequest struct {
	Text  *string `json:"text" binding:"omitempty"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"pub_date"`
}

func FromModelToReviewResponse(r *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID,
		Author:    r.Author.Username,
		Text:      r.Text,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
	}
}

type PaginatedReviewResponse struct {
	Items    []ReviewResponse `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func NewPaginatedReviewResponse(items []ReviewResponse, total, page, pageSize int) *PaginatedReviewResponse {
	return &PaginatedReviewResponse{Items: items, Total: total, Page: page, PageSize: pageSize}
}
