package service

import (
	"fmt"

	"checkout-service/internal/model"
)

// keeps order numbers visually distinct from raw basket IDs
const orderNumberOffset = 100000

// OrderNumberAllocator derives the stable order number for a basket.
// Given a basket, numbering is idempotent: generating the number again is
// cheaper than any round-trip to the payment processor, and determinism is
// what makes order placement safely retryable.
type OrderNumberAllocator interface {
	NumberFor(basket *model.Basket) string
}

type orderNumberAllocatorImpl struct {
	prefix string
}

func NewOrderNumberAllocator(prefix string) OrderNumberAllocator {
	return &orderNumberAllocatorImpl{
		prefix: prefix,
	}
}

func (a *orderNumberAllocatorImpl) NumberFor(basket *model.Basket) string {
	return fmt.Sprintf("%s-%06d", a.prefix, uint64(basket.ID)+orderNumberOffset)
}
