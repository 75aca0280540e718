package dto

import "reviewhub/internal/httpapi/models"

// CreateTitleRequest for POST /api/v1/titles
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Year        int      `json:"year" binding:"required,pastyear"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"omitempty,max=200,slug"`
	Genres      []string `json:"genres" binding:"omitempty,dive,max=200,slug"`
}

// UpdateTitleRequest for PATCH; nil fields are left untouched
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=100"`
	Year        *int      `json:"year" binding:"omitempty,pastyear"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" binding:"omitempty,max=200,slug"`
	Genres      *[]string `json:"genres" binding:"omitempty,dive,max=200,slug"`
}

// TitleResponse carries the derived rating: truncated mean of review
// scores, absent (null) when the title has no reviews.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description string            `json:"description"`
	Rating      *int              `json:"rating"`
	Category    *CategoryResponse `json:"category"`
	Genres      []GenreResponse   `json:"genres"`
}

func FromModelToTitleResponse(t *models.Title, rating *int) *TitleResponse {
	resp := &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Rating:      rating,
		Genres:      make([]GenreResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	for _, g := range t.Genres {
		resp.Genres = append(resp.Genres, GenreFromModel(g))
	}
	return resp
}

type PaginatedTitleResponse struct {
	Items    []TitleResponse `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func NewPaginatedTitleResponse(items []TitleResponse, total, page, pageSize int) *PaginatedTitleResponse {
	return &PaginatedTitleResponse{Items: items, Total: total, Page: page, PageSize: pageSize}
}
