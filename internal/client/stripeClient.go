package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"checkout-service/internal/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const stripeProcessorName = "stripe"

type stripeClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

type stripeCharge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Source struct {
		Brand string `json:"brand"`
		Last4 string `json:"last4"`
	} `json:"source"`
}

type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewStripeClient(stripeCfg *config.Stripe) PaymentGateway {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: stripeCfg.BaseApiURL,
		secretKey:  stripeCfg.SecretKey,
	}
}

func (c *stripeClientImpl) Name() string {
	return stripeProcessorName
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *stripeClientImpl) Charge(ctx context.Context, token string, amount decimal.Decimal, currency string) (*ChargeResult, error) {
	// Stripe takes amounts in the currency's minor unit
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(cents, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("source", token)
	form.Set("capture", "true")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseApiURL+"/v1/charges",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, &GatewayError{Processor: stripeProcessorName, Reason: "build charge request", Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// one key per attempt: a transport-level retry inside the http client
	// cannot double-charge
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request may have reached Stripe before the call was
		// cancelled or timed out, so the charge outcome is unknown. This
		// covers the http client's own timeout too, which fires without
		// touching the caller's context.
		if ctx.Err() != nil || isTimeout(err) {
			return nil, &AmbiguousOutcomeError{Processor: stripeProcessorName, Err: err}
		}
		return nil, &GatewayError{Processor: stripeProcessorName, Reason: "transport failure", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		var errBody stripeErrorBody
		if err := json.Unmarshal(body, &errBody); err == nil && errBody.Error.Type != "" {
			return nil, &GatewayError{
				Processor: stripeProcessorName,
				Reason:    fmt.Sprintf("%s (%s)", errBody.Error.Type, errBody.Error.Code),
			}
		}
		return nil, &GatewayError{
			Processor: stripeProcessorName,
			Reason:    fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var charge stripeCharge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		// money may have moved even though we could not read the response
		return nil, &AmbiguousOutcomeError{Processor: stripeProcessorName, Err: fmt.Errorf("decode charge response: %w", err)}
	}

	return &ChargeResult{
		ChargeID:  charge.ID,
		CardBrand: charge.Source.Brand,
		CardLast4: charge.Source.Last4,
		Amount:    amount,
		Currency:  currency,
	}, nil
}
