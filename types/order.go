package types

import "time"

// Order links a user to a product they ordered.
//
// UserID and ProductID are plain foreign keys. Whether they point at existing
// rows is decided by the database constraints alone.
type Order struct {
	// ID is the unique identifier of the order.
	ID int `json:"id" gorm:"primaryKey"`

	// UserID identifies the user who placed the order.
	UserID int `json:"user_id" gorm:"index;not null"`

	// ProductID identifies the ordered product.
	ProductID int `json:"product_id" gorm:"index;not null"`

	// OrderDate is when the order was placed.
	OrderDate time.Time `json:"order_date"`

	// Status is a free-form processing state such as "new" or "shipped".
	Status string `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrimaryKey returns the storage identifier of the order.
func (o Order) PrimaryKey() int {
	return o.ID
}

// OrderFilter selects orders by equality on the set fields.
type OrderFilter struct {
	ID        int
	UserID    int
	ProductID int
	Status    string
}

// Conditions returns the column/value pairs of the filter.
func (f OrderFilter) Conditions() map[string]any {
	conds := make(map[string]any, 4)
	if f.ID != 0 {
		conds["id"] = f.ID
	}
	if f.UserID != 0 {
		conds["user_id"] = f.UserID
	}
	if f.ProductID != 0 {
		conds["product_id"] = f.ProductID
	}
	if f.Status != "" {
		conds["status"] = f.Status
	}
	return conds
}

// OrderChanges is a partial update of an order.
type OrderChanges struct {
	Status    *string
	OrderDate *time.Time
}

// Columns returns the column/value pairs to write.
func (c OrderChanges) Columns() map[string]any {
	cols := make(map[string]any, 2)
	if c.Status != nil {
		cols["status"] = *c.Status
	}
	if c.OrderDate != nil {
		cols["order_date"] = *c.OrderDate
	}
	return cols
}
