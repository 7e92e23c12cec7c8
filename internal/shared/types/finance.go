package types

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one immutable ledger line. Debits are negative.
type Transaction struct {
	ID        string          `json:"id"`
	Merchant  string          `json:"merchant"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category,omitempty"`
	Account   string          `json:"account,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsDebit reports whether money left the account
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// CartItem is a product waiting in the shopping cart
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id" validate:"required"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Store     string          `json:"store" validate:"required"`
	ImageRef  string          `json:"image_ref,omitempty"`
	AddedAt   time.Time       `json:"added_at"`
}

// DefaultAccount is the card checkouts are charged to
const DefaultAccount = "Everyday Card •• 4821"

// ParseAmount converts a client-supplied price into a decimal.
// NaN, infinities and negative values are rejected.
func ParseAmount(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must be a finite number"}
	}
	if v < 0 {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return decimal.NewFromFloat(v).Round(2), nil
}
