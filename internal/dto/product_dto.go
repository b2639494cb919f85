package dto

import "github.com/shopspring/decimal"

type VariantResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type ProductResponse struct {
	ID          string            `json:"id"`
	Barcode     *string           `json:"barcode,omitempty"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	HasVariants bool              `json:"has_variants"`
	Variants    []VariantResponse `json:"variants,omitempty"`
}
