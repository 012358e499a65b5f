package service

import (
	"context"
	"testing"

	"checkout-service/internal/model"
	"checkout-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every session on the same in-memory database
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

	require.NoError(t, repository.NewCountryRepository(db).Seed(context.Background()))

	return db
}

func newTestBasket(t *testing.T, db *gorm.DB, ownerID string, total string) *model.Basket {
	t.Helper()

	basket := &model.Basket{
		OwnerID:      ownerID,
		Currency:     "USD",
		TotalInclTax: decimal.RequireFromString(total),
		Status:       model.BasketOpen,
	}
	require.NoError(t, repository.NewBasketRepository(db).Create(context.Background(), basket))

	return basket
}
