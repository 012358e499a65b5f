package service

import (
	"context"
	"errors"
	"strings"

	"checkout-service/internal/client"
	"checkout-service/internal/dto"
	"checkout-service/internal/model"
	"checkout-service/internal/repository"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// CheckoutService runs the submit, charge and place-order pipeline. The
// charge always completes before any order, source or event is created;
// when placement fails after a confirmed charge the error surfaces as a
// *PlacementError so the reconciliation path is never silently swallowed.
type CheckoutService interface {
	Submit(ctx context.Context, userID string, req *dto.SubmitRequest) (*SubmitResult, error)
	Receipt(ctx context.Context, userID, orderNumber string) (*model.Order, error)
}

type SubmitResult struct {
	Order      *model.Order
	ReceiptURL string
}

type checkoutServiceImpl struct {
	gateway        client.PaymentGateway
	addressBuilder AddressBuilder
	allocator      OrderNumberAllocator
	placer         OrderPlacer
	basketRepo     repository.BasketRepository
	orderRepo      repository.OrderRepository
	shipping       ShippingMethod
	totalCalc      OrderTotalCalculator
	site           SiteURLs
}

func NewCheckoutService(
	gateway client.PaymentGateway,
	addressBuilder AddressBuilder,
	allocator OrderNumberAllocator,
	placer OrderPlacer,
	basketRepo repository.BasketRepository,
	orderRepo repository.OrderRepository,
	site SiteURLs,
) CheckoutService {
	return &checkoutServiceImpl{
		gateway:        gateway,
		addressBuilder: addressBuilder,
		allocator:      allocator,
		placer:         placer,
		basketRepo:     basketRepo,
		orderRepo:      orderRepo,
		shipping:       NoShippingRequired{},
		totalCalc:      OrderTotalCalculator{},
		site:           site,
	}
}

func (s *checkoutServiceImpl) Submit(ctx context.Context, userID string, req *dto.SubmitRequest) (*SubmitResult, error) {
	basket, err := s.basketRepo.FindForOwner(ctx, req.BasketID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{FieldErrors: map[string]string{"basket": "basket not found"}}
		}
		return nil, err
	}

	// All validation happens before the gateway is touched: a validation
	// failure means no charge and no state change.
	billingAddress, verr, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}

	// Freeze before charging. Exactly one of two near-simultaneous
	// submissions wins this transition; the loser never reaches the
	// gateway.
	if err := s.basketRepo.Freeze(ctx, basket.ID); err != nil {
		if errors.Is(err, repository.ErrBasketStateConflict) {
			log.Warnf("basket %d already frozen or submitted, rejecting duplicate submission", basket.ID)
		}
		return nil, err
	}

	charge, err := s.gateway.Charge(ctx, req.StripeToken, basket.TotalInclTax, basket.Currency)
	if err != nil {
		return nil, s.handleChargeFailure(ctx, basket, err)
	}

	shippingCharge := s.shipping.Calculate(basket)
	orderTotal := s.totalCalc.Calculate(basket, shippingCharge)
	orderNumber := s.allocator.NumberFor(basket)

	order, err := s.placer.Place(ctx, &PlacementRequest{
		OrderNumber:    orderNumber,
		UserID:         userID,
		Basket:         basket,
		ShippingMethod: s.shipping.Name(),
		ShippingCharge: shippingCharge,
		BillingAddress: billingAddress,
		OrderTotal:     orderTotal,
		Charge:         charge,
	})
	if err != nil {
		// Money has moved without a matching order. The basket stays
		// frozen so no second charge is possible until this is reconciled.
		log.Errorf(
			"reconciliation required: charge %s succeeded for basket %d but order %s could not be placed: %v",
			charge.ChargeID, basket.ID, orderNumber, err,
		)
		return nil, err
	}

	return &SubmitResult{
		Order:      order,
		ReceiptURL: s.site.ReceiptURL(order.Number),
	}, nil
}

func (s *checkoutServiceImpl) validate(ctx context.Context, req *dto.SubmitRequest) (*model.BillingAddress, *ValidationError, error) {
	billingAddress, err := s.addressBuilder.Build(ctx, req)

	var verr *ValidationError
	if err != nil {
		if !errors.As(err, &verr) {
			return nil, nil, err
		}
	}

	if strings.TrimSpace(req.StripeToken) == "" {
		if verr == nil {
			verr = newValidationError()
		}
		verr.FieldErrors["stripe_token"] = "this field is required"
	}

	return billingAddress, verr, nil
}

// handleChargeFailure routes a failed or unknown-outcome charge. Declines,
// transport failures and unexpected errors all mean "no confirmed charge"
// and reopen the basket for a fresh attempt. An ambiguous outcome keeps the
// basket frozen: the charge may have gone through, so a retry could charge
// the shopper twice.
func (s *checkoutServiceImpl) handleChargeFailure(ctx context.Context, basket *model.Basket, err error) error {
	var ambiguous *client.AmbiguousOutcomeError
	if errors.As(err, &ambiguous) {
		log.Errorf("reconciliation required: charge outcome unknown for basket %d: %v", basket.ID, err)
		return err
	}

	log.Warnf("charge failed for basket %d: %v", basket.ID, err)

	if thawErr := s.basketRepo.Thaw(ctx, basket.ID); thawErr != nil {
		log.Errorf("thaw basket %d after failed charge: %v", basket.ID, thawErr)
	}

	var gwErr *client.GatewayError
	if !errors.As(err, &gwErr) {
		return &client.GatewayError{Processor: s.gateway.Name(), Reason: "unexpected failure", Err: err}
	}
	return err
}

func (s *checkoutServiceImpl) Receipt(ctx context.Context, userID, orderNumber string) (*model.Order, error) {
	return s.orderRepo.FindByNumberForUser(ctx, orderNumber, userID)
}
