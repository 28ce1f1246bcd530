package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enrollment is the durable payment record proving a buyer purchased a selection.
// At most one exists per (SelectedID, BuyerEmail).
type Enrollment struct {
	ID            string          `db:"id" json:"_id"`
	SelectedID    string          `db:"selected_id" json:"selectedId"`
	ClassID       string          `db:"class_id" json:"class_id"`
	ClassName     string          `db:"class_name" json:"class_name"`
	BuyerEmail    string          `db:"buyer_email" json:"buyer_email"`
	Amount        decimal.Decimal `db:"amount" json:"price"`
	TransactionID string          `db:"transaction_id" json:"transactionId"`
	CreatedAt     time.Time       `db:"created_at" json:"date"`
}

// PurchaseOutcome classifies a completed purchase call.
type PurchaseOutcome string

const (
	PurchaseCompleted        PurchaseOutcome = "completed"
	PurchaseAlreadyPurchased PurchaseOutcome = "already_purchased"
)

// PurchaseResult is returned by the purchase transition on success paths.
type PurchaseResult struct {
	Outcome    PurchaseOutcome `json:"outcome"`
	Enrollment *Enrollment     `json:"enrollment"`
}
