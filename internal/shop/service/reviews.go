package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
)

const (
	ReviewsPerPage        = 9
	MaxReviewTitleLength  = 50
	MaxReviewCommentsSize = 1000
)

type ReviewService struct {
	Store store.Store
	Now   func() time.Time
}

// ReviewPage is one page of the public review wall.
type ReviewPage struct {
	Reviews    []domain.ReviewListing
	Page       int
	TotalPages int
}

// Reviewable returns the order if the user owns it and has not reviewed it.
func (s *ReviewService) Reviewable(ctx context.Context, userID, orderID int64) (domain.Order, error) {
	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.ensureUnreviewed(ctx, orderID); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// Create leaves the single review an order may have.
func (s *ReviewService) Create(ctx context.Context, userID, orderID int64, title, comments string) (domain.OrderReview, error) {
	if _, err := s.ownedOrder(ctx, userID, orderID); err != nil {
		return domain.OrderReview{}, err
	}

	if title == "" || comments == "" {
		return domain.OrderReview{}, ErrMissingReviewFields
	}
	if utf8.RuneCountInString(title) > MaxReviewTitleLength {
		return domain.OrderReview{}, ErrReviewTitleTooLong
	}
	if utf8.RuneCountInString(comments) > MaxReviewCommentsSize {
		return domain.OrderReview{}, ErrReviewCommentsTooLong
	}

	if err := s.ensureUnreviewed(ctx, orderID); err != nil {
		return domain.OrderReview{}, err
	}

	review := domain.OrderReview{
		OrderID:   orderID,
		Title:     title,
		Comments:  comments,
		CreatedAt: s.now(),
	}
	id, err := s.Store.Reviews().CreateReview(ctx, review)
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.OrderReview{}, ErrAlreadyReviewed
	}
	if err != nil {
		return domain.OrderReview{}, fmt.Errorf("failed to create review: %w", err)
	}
	review.ID = id
	return review, nil
}

// Page returns reviews newest first, ReviewsPerPage at a time. Pages are
// numbered from 1 and there is always at least one.
func (s *ReviewService) Page(ctx context.Context, page int) (ReviewPage, error) {
	count, err := s.Store.Reviews().CountReviews(ctx)
	if err != nil {
		return ReviewPage{}, fmt.Errorf("failed to count reviews: %w", err)
	}

	total := max(1, int((count+ReviewsPerPage-1)/ReviewsPerPage))
	if page < 1 || page > total {
		return ReviewPage{}, ErrPageNotFound
	}

	listings, err := s.Store.Reviews().ListReviews(ctx, ReviewsPerPage, int64(page-1)*ReviewsPerPage)
	if err != nil {
		return ReviewPage{}, fmt.Errorf("failed to list reviews: %w", err)
	}

	for i := range listings {
		lines, err := s.Store.Orders().ListOrderLines(ctx, listings[i].OrderID)
		if err != nil {
			return ReviewPage{}, fmt.Errorf("failed to load review items: %w", err)
		}
		names := make([]string, 0, len(lines))
		for _, l := range lines {
			names = append(names, l.Name)
		}
		listings[i].ItemNames = names
	}

	return ReviewPage{Reviews: listings, Page: page, TotalPages: total}, nil
}

func (s *ReviewService) ownedOrder(ctx context.Context, userID, orderID int64) (domain.Order, error) {
	order, err := s.Store.Orders().GetOrderForUser(ctx, orderID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *ReviewService) ensureUnreviewed(ctx context.Context, orderID int64) error {
	_, err := s.Store.Reviews().GetReviewByOrder(ctx, orderID)
	switch {
	case err == nil:
		return ErrAlreadyReviewed
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check review: %w", err)
	}
}

func (s *ReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
