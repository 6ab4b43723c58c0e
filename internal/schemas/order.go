package schemas

import (
	"strings"
	"time"

	"github.com/orderdesk/apiserver/types"
)

// OrderCreate is the payload of POST /orders/add. OrderDate is optional.
type OrderCreate struct {
	UserID    *int       `json:"user_id" validate:"required,gt=0"`
	ProductID *int       `json:"product_id" validate:"required,gt=0"`
	Status    string     `json:"status" validate:"required,max=64"`
	OrderDate *time.Time `json:"order_date"`
}

func (p *OrderCreate) normalize() {
	p.Status = strings.TrimSpace(p.Status)
}

// Order converts the payload into a new entity.
func (p OrderCreate) Order() types.Order {
	order := types.Order{Status: p.Status}
	if p.UserID != nil {
		order.UserID = *p.UserID
	}
	if p.ProductID != nil {
		order.ProductID = *p.ProductID
	}
	if p.OrderDate != nil {
		order.OrderDate = p.OrderDate.UTC()
	}
	return order
}

// OrderUpdate is the payload of PUT /orders/edit/{id}.
type OrderUpdate struct {
	Status    *string    `json:"status" validate:"omitempty,min=1,max=64"`
	OrderDate *time.Time `json:"order_date"`
}

func (p *OrderUpdate) normalize() {
	trimPtr(p.Status)
}

func (p OrderUpdate) empty() bool {
	return p.Status == nil && p.OrderDate == nil
}

// Changes converts the payload into a partial update.
func (p OrderUpdate) Changes() types.OrderChanges {
	changes := types.OrderChanges{Status: p.Status}
	if p.OrderDate != nil {
		date := p.OrderDate.UTC()
		changes.OrderDate = &date
	}
	return changes
}
