package service

import (
	"testing"

	"checkout-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestOrderNumberAllocator_Idempotent(t *testing.T) {
	allocator := NewOrderNumberAllocator("SHOP")
	basket := &model.Basket{ID: 42}

	first := allocator.NumberFor(basket)
	second := allocator.NumberFor(basket)

	assert.Equal(t, first, second)
	assert.Equal(t, "SHOP-100042", first)
}

func TestOrderNumberAllocator_DistinctBaskets(t *testing.T) {
	allocator := NewOrderNumberAllocator("SHOP")

	a := allocator.NumberFor(&model.Basket{ID: 1})
	b := allocator.NumberFor(&model.Basket{ID: 2})

	assert.NotEqual(t, a, b)
}
