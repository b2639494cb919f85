package model

import "github.com/google/uuid"

// SaleLine is the inventory-relevant projection of a settled line item:
// which product (and variant) lost how many units. It travels through the
// stock sync job queue, hence the json tags.
type SaleLine struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
}
