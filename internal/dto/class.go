package dto

import "github.com/shopspring/decimal"

// CreateClassRequest is submitted by instructors. New classes await moderation.
type CreateClassRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Image          string          `json:"image"`
	InstructorName string          `json:"instructor_name"`
	Email          string          `json:"email" validate:"required,email"`
	AvailableSeats int             `json:"available_seats" validate:"gte=0"`
	Price          decimal.Decimal `json:"price"`
}

// FeedbackRequest attaches moderator feedback to a class.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}
