package products

import "time"

// Product is a catalog item that suggestions point at. Tags is a free-text
// list matched by substring.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch holds optional product updates; nil fields are left unchanged.
type Patch struct {
	Name        *string `json:"name"`
	Brand       *string `json:"brand"`
	Tags        *string `json:"tags"`
	Description *string `json:"description"`
}

func (p Patch) apply(prod Product) Product {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Brand != nil {
		prod.Brand = *p.Brand
	}
	if p.Tags != nil {
		prod.Tags = *p.Tags
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	return prod
}
