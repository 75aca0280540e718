package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugInUse        = errors.New("slug already in use")
)

type CategoryService interface {
	GetAll(ctx context.Context, search string) ([]dto.CategoryResponse, error)
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(repo *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) GetAll(ctx context.Context, search string) ([]dto.CategoryResponse, error) {
	list, err := s.repo.GetAll(ctx, search)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.CategoryFromModel(c))
	}
	return resp, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	model := models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, &model); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	resp := dto.CategoryFromModel(model)
	return &resp, nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
