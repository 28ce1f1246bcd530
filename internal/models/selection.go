package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Selection records a buyer's intent to purchase a class. One per (class, buyer).
type Selection struct {
	ID              string          `db:"id" json:"_id"`
	ClassID         string          `db:"class_id" json:"class_id"`
	Name            string          `db:"name" json:"name"`
	Image           string          `db:"image" json:"image"`
	InstructorName  string          `db:"instructor_name" json:"instructor_name"`
	InstructorEmail string          `db:"instructor_email" json:"instructor_email"`
	Price           decimal.Decimal `db:"price" json:"price"`
	BuyerEmail      string          `db:"buyer_email" json:"buyer_email"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
