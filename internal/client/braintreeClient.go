package client

import (
	"context"
	"errors"

	"checkout-service/internal/config"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

const braintreeProcessorName = "braintree"

// braintreeClientImpl is the alternate PaymentGateway backed by the
// Braintree SDK, selected with GATEWAY_PROCESSOR=braintree.
type braintreeClientImpl struct {
	gateway *braintree.Braintree
}

func NewBraintreeClient(cfg *config.Braintree) PaymentGateway {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway: gateway,
	}
}

func (c *braintreeClientImpl) Name() string {
	return braintreeProcessorName
}

func (c *braintreeClientImpl) Charge(ctx context.Context, token string, amount decimal.Decimal, currency string) (*ChargeResult, error) {
	// Braintree expects NewDecimal(unscaled, scale). For 2 decimal places:
	// "50.00" * 100 = 5000 -> braintree.NewDecimal(5000, 2)
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	btAmount := braintree.NewDecimal(cents, 2)

	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount,
		PaymentMethodNonce: token,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true, // capture the funds immediately
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &AmbiguousOutcomeError{Processor: braintreeProcessorName, Err: err}
		}
		return nil, &GatewayError{Processor: braintreeProcessorName, Reason: "transaction create", Err: err}
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined {
		return nil, &GatewayError{
			Processor: braintreeProcessorName,
			Reason:    "declined by processor: " + tx.ProcessorResponseText,
		}
	}

	result := &ChargeResult{
		ChargeID: tx.Id,
		Amount:   amount,
		Currency: currency,
	}
	if tx.CreditCard != nil {
		result.CardBrand = tx.CreditCard.CardType
		result.CardLast4 = tx.CreditCard.Last4
	}

	return result, nil
}
