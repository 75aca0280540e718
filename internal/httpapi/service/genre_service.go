package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreService interface {
	GetAll(ctx context.Context, search string) ([]dto.GenreResponse, error)
	Create(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(repo *repository.GenreRepo) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) GetAll(ctx context.Context, search string) ([]dto.GenreResponse, error) {
	list, err := s.repo.GetAll(ctx, search)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}
	return resp, nil
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	model := models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, &model); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	resp := dto.GenreFromModel(model)
	return &resp, nil
}

func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
