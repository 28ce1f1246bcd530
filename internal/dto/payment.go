package dto

import "github.com/shopspring/decimal"

// PaymentIntentRequest asks the provider for a card payment intent.
type PaymentIntentRequest struct {
	Price decimal.Decimal `json:"price"`
}

// PaymentIntentResponse returns the client secret to the storefront.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// PurchaseRequest records a confirmed payment against a selection.
type PurchaseRequest struct {
	BuyerEmail    string          `json:"buyer_email" validate:"required,email"`
	SelectedID    string          `json:"selectedId" validate:"required"`
	ClassID       string          `json:"classId"`
	ClassName     string          `json:"className"`
	Amount        decimal.Decimal `json:"price"`
	TransactionID string          `json:"transactionId" validate:"required"`
}
