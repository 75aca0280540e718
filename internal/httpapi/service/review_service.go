package service

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/access"
	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("you have already reviewed this title")
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, author *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error
}

// TitleGetter is the slice of the title repository the review service
// needs to confirm a title exists.
type TitleGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Title, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  TitleGetter
	ratings    *RatingAggregator
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo TitleGetter,
	ratings *RatingAggregator,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedReviewResponse(items, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Create adds the author's review of a title, at most one per pair. The
// pre-check gives the friendly error; the unique index is what actually
// guarantees it under concurrent requests.
func (s *reviewService) Create(ctx context.Context, author *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.titleExists(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthor(ctx, titleID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race against a concurrent create by the same author
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	if err := s.ratings.Invalidate(ctx, titleID); err != nil {
		return nil, err
	}

	// Reload with author data
	review, err = s.reviewRepo.GetByID(ctx, titleID, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Update edits an existing review: the author, a moderator, or an admin.
// The uniqueness guard does not apply here.
func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if err := access.AllowObject(http.MethodPatch, access.Resolve(actor), actor.ID, review.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	if err := s.ratings.Invalidate(ctx, titleID); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := access.AllowObject(http.MethodDelete, access.Resolve(actor), actor.ID, review.AuthorID); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	return s.ratings.Invalidate(ctx, titleID)
}

func (s *reviewService) titleExists(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}
