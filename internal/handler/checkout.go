package handler

import (
	"errors"
	"net/http"

	"checkout-service/internal/client"
	"checkout-service/internal/dto"
	"checkout-service/internal/repository"
	"checkout-service/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	site            service.SiteURLs
}

func NewCheckoutHandler(checkoutService service.CheckoutService, site service.SiteURLs) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		site:            site,
	}
}

func userIDFromContext(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return userID, nil
}

// Submit handles the payment form POST: it charges the processor, places
// the order and returns the receipt URL. Failure detail never reaches the
// shopper; it goes to the logs only.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.checkoutService.Submit(ctx, userID, &req)
	if err != nil {
		return h.submitFailure(c, err)
	}

	return c.JSON(http.StatusCreated, &dto.SubmitResponse{
		URL: result.ReceiptURL,
	})
}

// submitFailure maps the error taxonomy onto the response surface:
// validation errors redisplay the form with field errors, everything else
// becomes a generic redirect to the payment-error page.
func (h *CheckoutHandler) submitFailure(c echo.Context, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, &dto.FieldErrorsResponse{
			FieldErrors: verr.FieldErrors,
		})
	}

	var gwErr *client.GatewayError
	var ambiguous *client.AmbiguousOutcomeError
	var placement *service.PlacementError
	if errors.As(err, &gwErr) || errors.As(err, &ambiguous) || errors.As(err, &placement) ||
		errors.Is(err, repository.ErrBasketStateConflict) {
		return c.Redirect(http.StatusFound, h.site.PaymentErrorURL())
	}

	return err
}

func (h *CheckoutHandler) Receipt(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	orderNumber := c.Param("number")

	order, err := h.checkoutService.Receipt(ctx, userID, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	resp := &dto.ReceiptResponse{
		OrderNumber: order.Number,
		Total:       order.TotalInclTax.StringFixed(2),
		Currency:    order.Currency,
	}
	if len(order.Sources) > 0 {
		resp.CardType = order.Sources[0].CardType
		resp.CardLabel = order.Sources[0].Label
	}

	return c.JSON(http.StatusOK, resp)
}
