package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"checkout-service/internal/client"
	"checkout-service/internal/config"
	"checkout-service/internal/dto"
	authmw "checkout-service/internal/middleware"
	"checkout-service/internal/model"
	"checkout-service/internal/repository"
	"checkout-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testJWTSecret  = "test-secret"
	testCookieName = "session_token"
)

type stubGateway struct {
	chargeErr error
	charges   int
}

func (g *stubGateway) Name() string { return "stripe" }

func (g *stubGateway) Charge(_ context.Context, _ string, amount decimal.Decimal, currency string) (*client.ChargeResult, error) {
	g.charges++
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return &client.ChargeResult{
		ChargeID:  "ch_2404",
		CardBrand: "Visa",
		CardLast4: "4242",
		Amount:    amount,
		Currency:  currency,
	}, nil
}

type testApp struct {
	echo    *echo.Echo
	db      *gorm.DB
	gateway *stubGateway
	site    service.SiteURLs
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Country{},
		&model.Basket{},
		&model.BillingAddress{},
		&model.Order{},
		&model.Source{},
		&model.PaymentEvent{},
	))

	basketRepo := repository.NewBasketRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	countryRepo := repository.NewCountryRepository(db)
	require.NoError(t, countryRepo.Seed(context.Background()))

	site := service.NewSiteURLs(&config.Site{
		BaseURL:           "http://shop.example.com",
		ReceiptPath:       "/api/checkout/receipt",
		LoginPath:         "/login",
		PaymentErrorPath:  "/checkout/error",
		OrderNumberPrefix: "SHOP",
	})

	gateway := &stubGateway{}

	checkoutService := service.NewCheckoutService(
		gateway,
		service.NewAddressBuilder(countryRepo),
		service.NewOrderNumberAllocator("SHOP"),
		service.NewOrderPlacer(db, orderRepo, basketRepo, service.NewPaymentRecorder(gateway.Name())),
		basketRepo,
		orderRepo,
		site,
	)

	e := echo.New()
	h := NewCheckoutHandler(checkoutService, site)
	checkout := e.Group("/api/checkout", authmw.AuthMiddleware(testJWTSecret, testCookieName, site))
	checkout.POST("/submit", h.Submit)
	checkout.GET("/receipt/:number", h.Receipt)

	return &testApp{echo: e, db: db, gateway: gateway, site: site}
}

func (a *testApp) newBasket(t *testing.T, ownerID string) *model.Basket {
	t.Helper()

	basket := &model.Basket{
		OwnerID:      ownerID,
		Currency:     "USD",
		TotalInclTax: decimal.RequireFromString("49.99"),
		Status:       model.BasketOpen,
	}
	require.NoError(t, a.db.Create(basket).Error)
	return basket
}

func sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	return &http.Cookie{Name: testCookieName, Value: signed}
}

func submitBody(basketID uint) string {
	body, _ := json.Marshal(&dto.SubmitRequest{
		StripeToken:  "st_abc123",
		BasketID:     basketID,
		FirstName:    "Test",
		LastName:     "User",
		AddressLine1: "141 Portland Ave.",
		City:         "Cambridge",
		State:        "MA",
		PostalCode:   "02139",
		Country:      "US",
	})
	return string(body)
}

func (a *testApp) submit(t *testing.T, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/submit", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func TestSubmit_LoginRequired(t *testing.T) {
	app := newTestApp(t)

	rec := app.submit(t, submitBody(1), nil)

	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/api/checkout/submit", loc.Query().Get("next"))
	assert.Equal(t, 0, app.gateway.charges)
}

func TestSubmit_InvalidTokenRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.submit(t, submitBody(1), &http.Cookie{Name: testCookieName, Value: "garbage"})

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "/login?next=")
}

func TestSubmit_Success(t *testing.T) {
	app := newTestApp(t)
	basket := app.newBasket(t, "user-1")

	rec := app.submit(t, submitBody(basket.ID), sessionCookie(t, "user-1"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, app.site.ReceiptURL("SHOP-100001"), resp.URL)

	var orderCount int64
	require.NoError(t, app.db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
}

func TestSubmit_ValidationFailure(t *testing.T) {
	app := newTestApp(t)
	basket := app.newBasket(t, "user-1")

	body := strings.Replace(submitBody(basket.ID), `"US"`, `"XX"`, 1)
	rec := app.submit(t, body, sessionCookie(t, "user-1"))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.FieldErrorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unknown country code", resp.FieldErrors["country"])
	assert.Equal(t, 0, app.gateway.charges)
}

func TestSubmit_GatewayFailureRedirectsToPaymentError(t *testing.T) {
	app := newTestApp(t)
	basket := app.newBasket(t, "user-1")
	app.gateway.chargeErr = &client.GatewayError{Processor: "stripe", Reason: "card_declined"}

	rec := app.submit(t, submitBody(basket.ID), sessionCookie(t, "user-1"))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, app.site.PaymentErrorURL(), rec.Header().Get(echo.HeaderLocation))

	var orderCount int64
	require.NoError(t, app.db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount)
}

func TestSubmit_AmbiguousOutcomeRedirectsToPaymentError(t *testing.T) {
	app := newTestApp(t)
	basket := app.newBasket(t, "user-1")
	app.gateway.chargeErr = &client.AmbiguousOutcomeError{Processor: "stripe", Err: context.DeadlineExceeded}

	rec := app.submit(t, submitBody(basket.ID), sessionCookie(t, "user-1"))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, app.site.PaymentErrorURL(), rec.Header().Get(echo.HeaderLocation))
}

func TestReceipt_RoundTrip(t *testing.T) {
	app := newTestApp(t)
	basket := app.newBasket(t, "user-1")

	rec := app.submit(t, submitBody(basket.ID), sessionCookie(t, "user-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitResp dto.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitResp))

	// the receipt URL resolves to a page referencing the same order number
	loc, err := url.Parse(submitResp.URL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, loc.Path, nil)
	req.AddCookie(sessionCookie(t, "user-1"))
	receiptRec := httptest.NewRecorder()
	app.echo.ServeHTTP(receiptRec, req)

	require.Equal(t, http.StatusOK, receiptRec.Code)

	var receipt dto.ReceiptResponse
	require.NoError(t, json.Unmarshal(receiptRec.Body.Bytes(), &receipt))
	assert.Equal(t, "SHOP-100001", receipt.OrderNumber)
	assert.Equal(t, "49.99", receipt.Total)
	assert.Equal(t, "USD", receipt.Currency)
	assert.Equal(t, "visa", receipt.CardType)
	assert.Equal(t, "4242", receipt.CardLabel)
}

func TestReceipt_NotYourOrder(t *testing.T) {
	app := newTestApp(t)
	basket := app.newBasket(t, "user-1")

	rec := app.submit(t, submitBody(basket.ID), sessionCookie(t, "user-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/checkout/receipt/SHOP-100001", nil)
	req.AddCookie(sessionCookie(t, "somebody-else"))
	receiptRec := httptest.NewRecorder()
	app.echo.ServeHTTP(receiptRec, req)

	assert.Equal(t, http.StatusNotFound, receiptRec.Code)
}
