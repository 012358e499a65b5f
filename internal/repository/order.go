package repository

import (
	"context"

	"checkout-service/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	FindByNumberForUser(ctx context.Context, number, userID string) (*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	return r.findOne(ctx, "number = ?", number)
}

func (r *orderRepoImpl) FindByNumberForUser(ctx context.Context, number, userID string) (*model.Order, error) {
	return r.findOne(ctx, "number = ? AND user_id = ?", number, userID)
}

func (r *orderRepoImpl) findOne(ctx context.Context, query string, args ...interface{}) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("BillingAddress").
		Preload("Sources").
		Preload("PaymentEvents").
		Where(query, args...).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}
