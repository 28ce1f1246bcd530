package dto

import "github.com/shopspring/decimal"

// CreateSelectionRequest adds a class to a buyer's cart.
type CreateSelectionRequest struct {
	ClassID         string          `json:"class_id" validate:"required"`
	Name            string          `json:"name"`
	Image           string          `json:"image"`
	InstructorName  string          `json:"instructor_name"`
	InstructorEmail string          `json:"instructor_email" validate:"omitempty,email"`
	Price           decimal.Decimal `json:"price"`
	BuyerEmail      string          `json:"buyer_email" validate:"required,email"`
}
