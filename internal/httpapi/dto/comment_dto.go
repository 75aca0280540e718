package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

// CreateCommentRequest for POST .../reviews/:review_id/comments
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentResponse struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"pub_date"`
}

func FromModelToCommentResponse(c *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		Author:    c.Author.Username,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

type PaginatedCommentResponse struct {
	Items    []CommentResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func NewPaginatedCommentResponse(items []CommentResponse, total, page, pageSize int) *PaginatedCommentResponse {
	return &PaginatedCommentResponse{Items: items, Total: total, Page: page, PageSize: pageSize}
}
