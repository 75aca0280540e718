package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var ErrTitleNotFound = errors.New("title not found")

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    *repository.TitleRepo
	categoryRepo *repository.CategoryRepo
	genreRepo    *repository.GenreRepo
	ratings      *RatingAggregator
}

func NewTitleService(
	titleRepo *repository.TitleRepo,
	categoryRepo *repository.CategoryRepo,
	genreRepo *repository.GenreRepo,
	ratings *RatingAggregator,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		ratings:      ratings,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error) {
	titles, total, err := s.titleRepo.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	ratings, err := s.ratings.TitleRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		var rating *int
		if r, ok := ratings[titles[i].ID]; ok {
			rating = &r
		}
		items = append(items, *dto.FromModelToTitleResponse(&titles[i], rating))
	}
	return dto.NewPaginatedTitleResponse(items, int(total), page, pageSize), nil
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	rating, err := s.ratings.TitleRating(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, rating), nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, req.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	genres, err := s.genreRepo.GetBySlugs(ctx, req.Genres)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	if len(genres) > 0 {
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	// a fresh title has no reviews yet, so no rating
	return dto.FromModelToTitleResponse(title, nil), nil
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.categoryRepo.GetBySlug(ctx, *req.Category)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrCategoryNotFound
				}
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if req.Genres != nil {
		genres, err := s.genreRepo.GetBySlugs(ctx, *req.Genres)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGenreNotFound
			}
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	rating, err := s.ratings.TitleRating(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, rating), nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	// reviews cascade away with the title; drop the stale rating too
	return s.ratings.Invalidate(ctx, id)
}
