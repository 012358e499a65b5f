package service

import (
	"context"
	"fmt"

	"checkout-service/internal/client"
	"checkout-service/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const PaymentEventPaid = "paid"

// cardTypeMap normalizes the gateway's raw card-brand strings. The table is
// fixed and total: a brand missing from it is a defect to surface, never a
// value to default.
var cardTypeMap = map[string]string{
	"American Express": "american_express",
	"Diners Club":      "diners",
	"Discover":         "discover",
	"JCB":              "jcb",
	"MasterCard":       "mastercard",
	"Visa":             "visa",
}

// PaymentRecorder persists the outcome of a confirmed charge as a payment
// source and an append-only payment event, inside the caller's transaction.
type PaymentRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, order *model.Order, charge *client.ChargeResult, amount decimal.Decimal) (*model.Source, *model.PaymentEvent, error)
}

type paymentRecorderImpl struct {
	processorName string
}

func NewPaymentRecorder(processorName string) PaymentRecorder {
	return &paymentRecorderImpl{
		processorName: processorName,
	}
}

func (r *paymentRecorderImpl) Record(ctx context.Context, tx *gorm.DB, order *model.Order, charge *client.ChargeResult, amount decimal.Decimal) (*model.Source, *model.PaymentEvent, error) {
	cardType, ok := cardTypeMap[charge.CardBrand]
	if !ok {
		return nil, nil, fmt.Errorf("unmapped card brand %q on charge %s", charge.CardBrand, charge.ChargeID)
	}

	// single immediate capture: allocated and debited both equal the total
	source := &model.Source{
		OrderID:         order.ID,
		ProcessorName:   r.processorName,
		Currency:        order.Currency,
		AmountAllocated: amount,
		AmountDebited:   amount,
		CardType:        cardType,
		Label:           charge.CardLast4,
	}
	if err := tx.WithContext(ctx).Create(source).Error; err != nil {
		return nil, nil, fmt.Errorf("store payment source: %w", err)
	}

	event := &model.PaymentEvent{
		OrderID:       order.ID,
		EventType:     PaymentEventPaid,
		Amount:        amount,
		ProcessorName: r.processorName,
	}
	if err := tx.WithContext(ctx).Create(event).Error; err != nil {
		return nil, nil, fmt.Errorf("store payment event: %w", err)
	}

	return source, event, nil
}
