package types

import "time"

// Product represents an item that can be ordered.
type Product struct {
	// ID is the unique identifier of the product.
	ID int `json:"id" gorm:"primaryKey"`

	// Name is the display name of the product. It is used as the natural
	// key when adding new products.
	Name string `json:"name" gorm:"index"`

	// Description is a free-form text describing the product.
	Description string `json:"description"`

	// Price is the unit price of the product.
	Price float64 `json:"price"`

	// Orders holds the orders referencing this product.
	Orders []Order `json:"-" gorm:"foreignKey:ProductID"`

	// CreatedAt is the timestamp when the product was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the product.
	UpdatedAt time.Time `json:"updated_at"`
}

// PrimaryKey returns the storage identifier of the product.
func (p Product) PrimaryKey() int {
	return p.ID
}

// ProductFilter selects products by equality on the set fields.
type ProductFilter struct {
	ID   int
	Name string
}

// Conditions returns the column/value pairs of the filter.
func (f ProductFilter) Conditions() map[string]any {
	conds := make(map[string]any, 2)
	if f.ID != 0 {
		conds["id"] = f.ID
	}
	if f.Name != "" {
		conds["name"] = f.Name
	}
	return conds
}

// ProductChanges is a partial update of a product.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *float64
}

// Columns returns the column/value pairs to write.
func (c ProductChanges) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if c.Name != nil {
		cols["name"] = *c.Name
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.Price != nil {
		cols["price"] = *c.Price
	}
	return cols
}
