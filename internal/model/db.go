package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BasketStatus string

const (
	BasketOpen      BasketStatus = "OPEN"
	BasketFrozen    BasketStatus = "FROZEN"
	BasketSubmitted BasketStatus = "SUBMITTED"
)

type User struct {
	ID       string `gorm:"primaryKey;size:64;not null"`
	Email    string `gorm:"size:255;index"`
	Username string `gorm:"size:64"`

	CreatedAt time.Time
}

// Basket is the shopper's priced, pending purchase. Its total and derived
// order number stay stable for the life of one submission attempt; the
// status column guards the frozen-before-charge lifecycle.
type Basket struct {
	ID           uint            `gorm:"primaryKey"`
	OwnerID      string          `gorm:"size:64;index;not null"`
	Currency     string          `gorm:"size:8;not null"`
	TotalInclTax decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       BasketStatus    `gorm:"size:16;index;not null;default:OPEN"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Country struct {
	ISO2 string `gorm:"primaryKey;size:2;not null"` // ISO 3166-1 alpha-2
	Name string `gorm:"size:128;not null"`
}

type BillingAddress struct {
	ID         uint   `gorm:"primaryKey"`
	FirstName  string `gorm:"size:255;not null"`
	LastName   string `gorm:"size:255;not null"`
	Line1      string `gorm:"size:255;not null"`
	Line2      string `gorm:"size:255"`
	City       string `gorm:"size:255;not null"`
	State      string `gorm:"size:255"`
	PostalCode string `gorm:"size:64"`
	// FK → country.iso2
	CountryCode string `gorm:"size:2;not null"`

	CreatedAt time.Time
}

// Order is the aggregate root. The unique index on Number is the
// persistence-boundary guard that makes placement idempotent under
// concurrent resubmission.
type Order struct {
	ID           uint            `gorm:"primaryKey"`
	Number       string          `gorm:"size:64;uniqueIndex;not null"`
	UserID       string          `gorm:"size:64;index;not null"`
	Currency     string          `gorm:"size:8;not null"`
	TotalInclTax decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	BillingAddressID uint           `gorm:"not null"`
	BillingAddress   BillingAddress `gorm:"constraint:OnDelete:CASCADE"`

	// nil when no shipping is required
	ShippingAddressID *uint
	ShippingMethod    string          `gorm:"size:64"`
	ShippingCharge    decimal.Decimal `gorm:"type:decimal(12,2)"`

	Sources       []Source       `gorm:"constraint:OnDelete:CASCADE"`
	PaymentEvents []PaymentEvent `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Source records how much was allocated and debited against an order via a
// specific processor. For the single immediate-capture flow both amounts
// equal the order total.
type Source struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.id
	OrderID         uint            `gorm:"index;not null"`
	ProcessorName   string          `gorm:"size:32;not null"`
	Currency        string          `gorm:"size:8;not null"`
	AmountAllocated decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountDebited   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CardType        string          `gorm:"size:32;not null"`
	Label           string          `gorm:"size:16"` // card last four

	CreatedAt time.Time
}

// PaymentEvent is an append-only audit entry; rows are never updated.
type PaymentEvent struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.id
	OrderID       uint            `gorm:"index;not null"`
	EventType     string          `gorm:"size:32;index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProcessorName string          `gorm:"size:32;not null"`

	CreatedAt time.Time
}
