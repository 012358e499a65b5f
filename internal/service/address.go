package service

import (
	"context"
	"errors"
	"strings"

	"checkout-service/internal/dto"
	"checkout-service/internal/model"
	"checkout-service/internal/repository"

	"gorm.io/gorm"
)

// AddressBuilder turns raw submitted billing fields into a validated
// BillingAddress value. It performs no persistence; the only lookup is the
// country registry.
type AddressBuilder interface {
	Build(ctx context.Context, req *dto.SubmitRequest) (*model.BillingAddress, error)
}

type addressBuilderImpl struct {
	countryRepo repository.CountryRepository
}

func NewAddressBuilder(countryRepo repository.CountryRepository) AddressBuilder {
	return &addressBuilderImpl{
		countryRepo: countryRepo,
	}
}

func (b *addressBuilderImpl) Build(ctx context.Context, req *dto.SubmitRequest) (*model.BillingAddress, error) {
	verr := newValidationError()

	required := map[string]string{
		"first_name":    req.FirstName,
		"last_name":     req.LastName,
		"address_line1": req.AddressLine1,
		"city":          req.City,
		"country":       req.Country,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			verr.FieldErrors[field] = "this field is required"
		}
	}

	var countryCode string
	if _, missing := verr.FieldErrors["country"]; !missing {
		country, err := b.countryRepo.ByCode(ctx, req.Country)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verr.FieldErrors["country"] = "unknown country code"
			} else {
				return nil, err
			}
		} else {
			countryCode = country.ISO2
		}
	}

	if len(verr.FieldErrors) > 0 {
		return nil, verr
	}

	return &model.BillingAddress{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Line1:       req.AddressLine1,
		Line2:       req.AddressLine2, // optional
		City:        req.City,
		State:       req.State,      // optional
		PostalCode:  req.PostalCode, // optional
		CountryCode: countryCode,
	}, nil
}
