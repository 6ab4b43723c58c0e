package services

import (
	"fmt"

	"github.com/orderdesk/apiserver/types"
)

// ProductService encapsulates product use-cases. Name is the natural key.
// Names are not backed by a unique index.
type ProductService = Resource[types.Product, types.ProductFilter, types.ProductChanges]

// ProductRepository defines persistence operations for products.
type ProductRepository = Repository[types.Product, types.ProductFilter, types.ProductChanges]

func NewProductService(repo ProductRepository, opts Options) *ProductService {
	return &ProductService{
		name:    "product",
		channel: "products",
		repo:    repo,
		byID:    func(id int) types.ProductFilter { return types.ProductFilter{ID: id} },
		naturalKey: func(p types.Product) (types.ProductFilter, bool) {
			return types.ProductFilter{Name: p.Name}, p.Name != ""
		},
		changedKey: func(c types.ProductChanges) (types.ProductFilter, bool) {
			if c.Name == nil || *c.Name == "" {
				return types.ProductFilter{}, false
			}
			return types.ProductFilter{Name: *c.Name}, true
		},
		conflict: func(f types.ProductFilter) string {
			return fmt.Sprintf("product with name %s already exists", f.Name)
		},
		events:  opts.Events,
		metrics: opts.Metrics,
	}
}
