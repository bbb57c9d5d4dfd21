package model

import "time"

// Product is one catalog entry as fetched from the store.
type Product struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Vendor    string    `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Variants  []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Variant belongs to exactly one product; its ID is only meaningful
// alongside the parent.
type Variant struct {
	ID      string `json:"id" yaml:"id"`
	SKU     string `json:"sku,omitempty" yaml:"sku,omitempty"`
	Barcode string `json:"barcode,omitempty" yaml:"barcode,omitempty"`
}

// Session is the offline access grant a shop gave the app.
type Session struct {
	ID          string    `json:"id"`
	Shop        string    `json:"shop"`
	AccessToken string    `json:"accessToken"`
	Scope       string    `json:"scope,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
