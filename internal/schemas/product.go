package schemas

import (
	"strings"

	"github.com/orderdesk/apiserver/types"
)

// ProductCreate is the payload of POST /products/add.
type ProductCreate struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

func (p *ProductCreate) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

// Product converts the payload into a new entity.
func (p ProductCreate) Product() types.Product {
	product := types.Product{
		Name:        p.Name,
		Description: p.Description,
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	return product
}

// ProductUpdate is the payload of PUT /products/edit/{id}.
type ProductUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

func (p *ProductUpdate) normalize() {
	trimPtr(p.Name)
	trimPtr(p.Description)
}

func (p ProductUpdate) empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil
}

// Changes converts the payload into a partial update.
func (p ProductUpdate) Changes() types.ProductChanges {
	return types.ProductChanges{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}
