package service

import (
	"context"
	"testing"

	"checkout-service/internal/dto"
	"checkout-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddressFields() *dto.SubmitRequest {
	return &dto.SubmitRequest{
		FirstName:    "Test",
		LastName:     "User",
		AddressLine1: "141 Portland Ave.",
		City:         "Cambridge",
		State:        "MA",
		PostalCode:   "02139",
		Country:      "US",
	}
}

func TestAddressBuilder_Build(t *testing.T) {
	db := newTestDB(t)
	builder := NewAddressBuilder(repository.NewCountryRepository(db))

	address, err := builder.Build(context.Background(), validAddressFields())
	require.NoError(t, err)

	assert.Equal(t, "Test", address.FirstName)
	assert.Equal(t, "User", address.LastName)
	assert.Equal(t, "141 Portland Ave.", address.Line1)
	assert.Equal(t, "", address.Line2)
	assert.Equal(t, "Cambridge", address.City)
	assert.Equal(t, "MA", address.State)
	assert.Equal(t, "02139", address.PostalCode)
	assert.Equal(t, "US", address.CountryCode)
}

func TestAddressBuilder_OptionalFieldsDefaultEmpty(t *testing.T) {
	db := newTestDB(t)
	builder := NewAddressBuilder(repository.NewCountryRepository(db))

	fields := validAddressFields()
	fields.State = ""
	fields.PostalCode = ""
	fields.AddressLine2 = ""

	address, err := builder.Build(context.Background(), fields)
	require.NoError(t, err)

	assert.Empty(t, address.State)
	assert.Empty(t, address.PostalCode)
	assert.Empty(t, address.Line2)
}

func TestAddressBuilder_MissingRequiredFields(t *testing.T) {
	db := newTestDB(t)
	builder := NewAddressBuilder(repository.NewCountryRepository(db))

	_, err := builder.Build(context.Background(), &dto.SubmitRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"first_name", "last_name", "address_line1", "city", "country"} {
		assert.Contains(t, verr.FieldErrors, field)
	}
}

func TestAddressBuilder_UnknownCountry(t *testing.T) {
	db := newTestDB(t)
	builder := NewAddressBuilder(repository.NewCountryRepository(db))

	fields := validAddressFields()
	fields.Country = "XX"

	_, err := builder.Build(context.Background(), fields)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unknown country code", verr.FieldErrors["country"])
}

func TestAddressBuilder_LowercaseCountryCode(t *testing.T) {
	db := newTestDB(t)
	builder := NewAddressBuilder(repository.NewCountryRepository(db))

	fields := validAddressFields()
	fields.Country = "us"

	address, err := builder.Build(context.Background(), fields)
	require.NoError(t, err)
	assert.Equal(t, "US", address.CountryCode)
}
