package service

import (
	"context"
	"errors"
	"fmt"

	"checkout-service/internal/client"
	"checkout-service/internal/model"
	"checkout-service/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PlacementRequest struct {
	OrderNumber    string
	UserID         string
	Basket         *model.Basket
	ShippingMethod string
	ShippingCharge decimal.Decimal
	BillingAddress *model.BillingAddress
	OrderTotal     decimal.Decimal
	Charge         *client.ChargeResult
}

// OrderPlacer creates the order aggregate for a confirmed charge. Placement
// is idempotent on order number: a retry of a previous successful placement
// returns the existing order unchanged instead of creating a duplicate.
type OrderPlacer interface {
	Place(ctx context.Context, req *PlacementRequest) (*model.Order, error)
}

type orderPlacerImpl struct {
	db         *gorm.DB
	orderRepo  repository.OrderRepository
	basketRepo repository.BasketRepository
	recorder   PaymentRecorder
}

func NewOrderPlacer(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	basketRepo repository.BasketRepository,
	recorder PaymentRecorder,
) OrderPlacer {
	return &orderPlacerImpl{
		db:         db,
		orderRepo:  orderRepo,
		basketRepo: basketRepo,
		recorder:   recorder,
	}
}

func (p *orderPlacerImpl) Place(ctx context.Context, req *PlacementRequest) (*model.Order, error) {
	existing, err := p.orderRepo.FindByNumber(ctx, req.OrderNumber)
	if err == nil {
		return p.resolveExisting(ctx, req, existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, p.placementError(req, fmt.Errorf("look up order: %w", err))
	}

	order := &model.Order{
		Number:         req.OrderNumber,
		UserID:         req.UserID,
		Currency:       req.Basket.Currency,
		TotalInclTax:   req.OrderTotal,
		BillingAddress: *req.BillingAddress,
		ShippingMethod: req.ShippingMethod,
		ShippingCharge: req.ShippingCharge,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		if _, _, err := p.recorder.Record(ctx, tx, order, req.Charge, req.OrderTotal); err != nil {
			return fmt.Errorf("record payment: %w", err)
		}

		if err := p.basketRepo.MarkSubmitted(ctx, tx, req.Basket.ID); err != nil {
			return fmt.Errorf("mark basket submitted: %w", err)
		}

		return nil
	})
	if err != nil {
		// The unique index on order number may have rejected a concurrent
		// duplicate; the order placed by the other submission wins.
		if existing, findErr := p.orderRepo.FindByNumber(ctx, req.OrderNumber); findErr == nil {
			return p.resolveExisting(ctx, req, existing)
		}
		return nil, p.placementError(req, err)
	}

	return order, nil
}

// resolveExisting handles the retry of a previous successful placement: the
// existing order is returned unchanged, and the basket is still consumed if
// an earlier attempt left it frozen.
func (p *orderPlacerImpl) resolveExisting(ctx context.Context, req *PlacementRequest, existing *model.Order) (*model.Order, error) {
	err := p.basketRepo.MarkSubmitted(ctx, p.db, req.Basket.ID)
	if err != nil && !errors.Is(err, repository.ErrBasketStateConflict) {
		return nil, p.placementError(req, fmt.Errorf("mark basket submitted: %w", err))
	}
	return existing, nil
}

func (p *orderPlacerImpl) placementError(req *PlacementRequest, err error) *PlacementError {
	return &PlacementError{
		OrderNumber: req.OrderNumber,
		ChargeID:    req.Charge.ChargeID,
		Err:         err,
	}
}
