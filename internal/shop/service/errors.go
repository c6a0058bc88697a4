package service

import "errors"

// Validation and domain failures. Handlers turn these into the messages
// shown to shoppers; anything else is an internal error.
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidItem         = errors.New("invalid fruit id")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrUnknownPromo        = errors.New("promo code does not exist")
	ErrExpiredPromo        = errors.New("promo code has expired")
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrMissingCredentials = errors.New("missing username or password")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUsernameTaken      = errors.New("username taken")
	ErrUsernameTooLong    = errors.New("username too long")
	ErrNoPendingAuth      = errors.New("no pending authentication")
	ErrMissingOTP         = errors.New("missing otp code")
	ErrInvalidOTP         = errors.New("invalid otp code")
	ErrTooManyAttempts    = errors.New("too_many_attempts")

	ErrOrderNotFound         = errors.New("order not found")
	ErrMissingReviewFields   = errors.New("missing review title or comments")
	ErrReviewTitleTooLong    = errors.New("review title too long")
	ErrReviewCommentsTooLong = errors.New("review comments too long")
	ErrAlreadyReviewed       = errors.New("order already reviewed")
	ErrPageNotFound          = errors.New("page not found")

	ErrInvalidPromotion  = errors.New("invalid promotion")
	ErrPromotionNotFound = errors.New("promotion not found")
)
