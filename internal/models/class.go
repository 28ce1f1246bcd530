package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassStatus is the moderation state of a class.
type ClassStatus string

const (
	ClassPending  ClassStatus = "pending"
	ClassApproved ClassStatus = "approved"
	ClassDenied   ClassStatus = "denied"
)

// Class is a course offered by an instructor.
type Class struct {
	ID             string          `db:"id" json:"_id"`
	Name           string          `db:"name" json:"name"`
	Image          string          `db:"image" json:"image"`
	InstructorName string          `db:"instructor_name" json:"instructor_name"`
	Email          string          `db:"email" json:"email"`
	AvailableSeats int             `db:"available_seats" json:"available_seats"`
	Price          decimal.Decimal `db:"price" json:"price"`
	Enrolled       int             `db:"enrolled" json:"enrolled"`
	Status         ClassStatus     `db:"status" json:"status"`
	Feedback       *string         `db:"feedback" json:"feedback,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// ClassFilter narrows class listings. Zero values match everything.
type ClassFilter struct {
	Email  string
	Status ClassStatus
}
