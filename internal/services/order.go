package services

import (
	"time"

	"github.com/orderdesk/apiserver/types"
)

// OrderService encapsulates order use-cases. Orders have no natural key, so
// identical orders may be created repeatedly.
type OrderService = Resource[types.Order, types.OrderFilter, types.OrderChanges]

// OrderRepository defines persistence operations for orders.
type OrderRepository = Repository[types.Order, types.OrderFilter, types.OrderChanges]

func NewOrderService(repo OrderRepository, opts Options) *OrderService {
	return &OrderService{
		name:    "order",
		channel: "orders",
		repo:    repo,
		byID:    func(id int) types.OrderFilter { return types.OrderFilter{ID: id} },
		prepare: defaultOrderDate,
		events:  opts.Events,
		metrics: opts.Metrics,
	}
}

func defaultOrderDate(o *types.Order) error {
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	return nil
}
