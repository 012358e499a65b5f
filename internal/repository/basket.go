package repository

import (
	"context"
	"errors"
	"time"

	"checkout-service/internal/model"

	"gorm.io/gorm"
)

// ErrBasketStateConflict is returned when a guarded status transition
// matched no row: the basket was already frozen or submitted by a
// concurrent submission.
var ErrBasketStateConflict = errors.New("basket is not in the required state")

type BasketRepository interface {
	Create(ctx context.Context, basket *model.Basket) error
	FindForOwner(ctx context.Context, basketID uint, ownerID string) (*model.Basket, error)
	Freeze(ctx context.Context, basketID uint) error
	Thaw(ctx context.Context, basketID uint) error
	MarkSubmitted(ctx context.Context, tx *gorm.DB, basketID uint) error
}

type basketRepoImpl struct {
	db *gorm.DB
}

func NewBasketRepository(db *gorm.DB) BasketRepository {
	return &basketRepoImpl{
		db: db,
	}
}

func (r *basketRepoImpl) Create(ctx context.Context, basket *model.Basket) error {
	return r.db.WithContext(ctx).Create(basket).Error
}

func (r *basketRepoImpl) FindForOwner(ctx context.Context, basketID uint, ownerID string) (*model.Basket, error) {
	var basket model.Basket
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", basketID, ownerID).
		First(&basket).Error

	if err != nil {
		return nil, err
	}

	return &basket, nil
}

// Freeze moves an OPEN basket to FROZEN. The guarded UPDATE is the
// first line of defense against two near-simultaneous submissions of the
// same basket: exactly one of them observes an OPEN row.
func (r *basketRepoImpl) Freeze(ctx context.Context, basketID uint) error {
	return r.transition(ctx, r.db, basketID, []model.BasketStatus{model.BasketOpen}, model.BasketFrozen)
}

// Thaw reopens a frozen basket after a definitive charge failure so the
// shopper can retry. Never called on an ambiguous outcome.
func (r *basketRepoImpl) Thaw(ctx context.Context, basketID uint) error {
	return r.transition(ctx, r.db, basketID, []model.BasketStatus{model.BasketFrozen}, model.BasketOpen)
}

func (r *basketRepoImpl) MarkSubmitted(ctx context.Context, tx *gorm.DB, basketID uint) error {
	return r.transition(ctx, tx, basketID, []model.BasketStatus{model.BasketFrozen}, model.BasketSubmitted)
}

func (r *basketRepoImpl) transition(ctx context.Context, tx *gorm.DB, basketID uint, from []model.BasketStatus, to model.BasketStatus) error {
	result := tx.WithContext(ctx).Model(&model.Basket{}).
		Where("id = ? AND status IN ?", basketID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBasketStateConflict
	}
	return nil
}
