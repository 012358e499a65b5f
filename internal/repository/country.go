package repository

import (
	"context"
	"strings"

	"checkout-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CountryRepository interface {
	Seed(ctx context.Context) error
	ByCode(ctx context.Context, iso2 string) (*model.Country, error)
}

type countryRepoImpl struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepoImpl{
		db: db,
	}
}

func (r *countryRepoImpl) Seed(ctx context.Context) error {
	countries := []model.Country{
		{ISO2: "AU", Name: "Australia"},
		{ISO2: "CA", Name: "Canada"},
		{ISO2: "DE", Name: "Germany"},
		{ISO2: "FR", Name: "France"},
		{ISO2: "GB", Name: "United Kingdom"},
		{ISO2: "IN", Name: "India"},
		{ISO2: "JP", Name: "Japan"},
		{ISO2: "US", Name: "United States"},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&countries).Error
}

func (r *countryRepoImpl) ByCode(ctx context.Context, iso2 string) (*model.Country, error) {
	var country model.Country
	err := r.db.WithContext(ctx).
		Where("iso2 = ?", strings.ToUpper(iso2)).
		First(&country).Error

	if err != nil {
		return nil, err
	}

	return &country, nil
}
