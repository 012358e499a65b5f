package client

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ChargeResult is the confirmed outcome of a gateway charge. Only gateway
// implementations construct it; callers treat its presence as proof that
// money has moved.
type ChargeResult struct {
	ChargeID  string
	CardBrand string
	CardLast4 string
	Amount    decimal.Decimal
	Currency  string
}

// PaymentGateway wraps an external charge-creation API. A nil error means
// the charge is confirmed; any error means "charge not confirmed" except
// *AmbiguousOutcomeError, which means the outcome is unknown.
type PaymentGateway interface {
	Name() string
	Charge(ctx context.Context, token string, amount decimal.Decimal, currency string) (*ChargeResult, error)
}

// GatewayError covers declines, transport failures and malformed tokens.
// All of them mean the same thing to callers: no confirmed charge exists.
type GatewayError struct {
	Processor string
	Reason    string
	Err       error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s charge failed: %s: %v", e.Processor, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s charge failed: %s", e.Processor, e.Reason)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// AmbiguousOutcomeError is raised when the charge request may have reached
// the processor but its result could not be determined (timeout or
// cancellation mid-call). Callers must not treat it as success or failure;
// a second charge attempt for the same basket is forbidden until the
// outcome is reconciled out of band.
type AmbiguousOutcomeError struct {
	Processor string
	Err       error
}

func (e *AmbiguousOutcomeError) Error() string {
	return fmt.Sprintf("%s charge outcome unknown: %v", e.Processor, e.Err)
}

func (e *AmbiguousOutcomeError) Unwrap() error { return e.Err }
