package dto

import "github.com/shopspring/decimal"

type SettingsResponse struct {
	StoreName        string          `json:"store_name"`
	Currency         string          `json:"currency"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	PricesIncludeTax bool            `json:"prices_include_tax"`
	Address          *string         `json:"address,omitempty"`
	Phone            *string         `json:"phone,omitempty"`
}

type UpdateSettingsRequest struct {
	StoreName        string          `json:"store_name" validate:"required"`
	Currency         string          `json:"currency"   validate:"required"`
	TaxRate          decimal.Decimal `json:"tax_rate"   validate:"min=0"`
	PricesIncludeTax bool            `json:"prices_include_tax"`
	Address          *string         `json:"address"`
	Phone            *string         `json:"phone"`
}
