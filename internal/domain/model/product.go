package model

import (
	"errors"
	"strings"
	"time"
)

// AssetClass categorizes a piece for the collection filters and the vault.
type AssetClass string

const (
	AssetClassTimepiece  AssetClass = "timepiece"
	AssetClassJewellery  AssetClass = "jewellery"
	AssetClassObjetDArt  AssetClass = "objet"
	AssetClassAccessoire AssetClass = "accessoire"
)

// Product is a catalog entry for a single piece.
type Product struct {
	ID         string     `json:"id"         db:"id"`
	Title      string     `json:"title"      db:"title"`
	House      string     `json:"house"      db:"house"`
	AssetClass AssetClass `json:"asset_class" db:"asset_class"`
	Price      float64    `json:"price"      db:"price"`
	Image      string     `json:"image"      db:"image"`
	Available  bool       `json:"available"  db:"available"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateProductRequest carries the fields needed to add a catalog entry.
type CreateProductRequest struct {
	Title      string     `json:"title"`
	House      string     `json:"house"`
	AssetClass AssetClass `json:"asset_class"`
	Price      float64    `json:"price"`
	Image      string     `json:"image"`
}

// Validate checks required fields on a create request.
func (r *CreateProductRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(r.House) == "" {
		return errors.New("house is required")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	switch r.AssetClass {
	case AssetClassTimepiece, AssetClassJewellery, AssetClassObjetDArt, AssetClassAccessoire:
	default:
		return errors.New("unknown asset class")
	}
	return nil
}
