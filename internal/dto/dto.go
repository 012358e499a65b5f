package dto

type SubmitRequest struct {
	StripeToken string `json:"stripe_token" form:"stripe_token"`
	BasketID    uint   `json:"basket" form:"basket"`

	FirstName    string `json:"first_name" form:"first_name"`
	LastName     string `json:"last_name" form:"last_name"`
	AddressLine1 string `json:"address_line1" form:"address_line1"`
	AddressLine2 string `json:"address_line2" form:"address_line2"`
	City         string `json:"city" form:"city"`
	State        string `json:"state" form:"state"`
	PostalCode   string `json:"postal_code" form:"postal_code"`
	Country      string `json:"country" form:"country"`
}

type SubmitResponse struct {
	URL string `json:"url"`
}

type FieldErrorsResponse struct {
	FieldErrors map[string]string `json:"field_errors"`
}

type ReceiptResponse struct {
	OrderNumber string `json:"order_number"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	CardType    string `json:"card_type,omitempty"`
	CardLabel   string `json:"card_label,omitempty"`
}
