package store

import (
	"context"

	"github.com/orderdesk/apiserver/types"
	"gorm.io/gorm"
)

const primaryKeyColumn = "id"

// Record is a persisted entity addressed by an integer primary key.
type Record interface {
	PrimaryKey() int
}

// Filter restricts a query to rows whose columns equal the returned values.
type Filter interface {
	Conditions() map[string]any
}

// Changes is a partial set of column values written by Update.
type Changes interface {
	Columns() map[string]any
}

// Repository handles persistence for one entity type.
//
// Every call runs in its own session derived from the shared handle and is
// committed before it returns. Calls never share a transaction, so a read
// followed by a write from the caller is not atomic.
type Repository[T Record, F Filter, C Changes] struct {
	db *gorm.DB
}

type (
	UserRepository    = Repository[types.User, types.UserFilter, types.UserChanges]
	ProductRepository = Repository[types.Product, types.ProductFilter, types.ProductChanges]
	OrderRepository   = Repository[types.Order, types.OrderFilter, types.OrderChanges]
)

func NewRepository[T Record, F Filter, C Changes](db *gorm.DB) *Repository[T, F, C] {
	return &Repository[T, F, C]{db: db}
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return NewRepository[types.User, types.UserFilter, types.UserChanges](db)
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return NewRepository[types.Product, types.ProductFilter, types.ProductChanges](db)
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return NewRepository[types.Order, types.OrderFilter, types.OrderChanges](db)
}

// GetOne returns the first record matching the filter. Which record is
// returned when several match is up to the database.
func (r *Repository[T, F, C]) GetOne(ctx context.Context, filter F) (T, error) {
	var entity T
	if err := r.session(ctx, filter).Take(&entity).Error; err != nil {
		return entity, translateError(err)
	}
	return entity, nil
}

// GetLast returns the matching record with the highest identifier.
func (r *Repository[T, F, C]) GetLast(ctx context.Context, filter F) (T, error) {
	var entity T
	err := r.session(ctx, filter).
		Order(primaryKeyColumn + " DESC").
		Take(&entity).Error
	if err != nil {
		return entity, translateError(err)
	}
	return entity, nil
}

// GetAll returns every matching record, newest identifier first.
// No match yields an empty slice, not an error.
func (r *Repository[T, F, C]) GetAll(ctx context.Context, filter F) ([]T, error) {
	entities := make([]T, 0)
	err := r.session(ctx, filter).
		Order(primaryKeyColumn + " DESC").
		Find(&entities).Error
	if err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

// List returns one window of GetAll together with the total match count.
func (r *Repository[T, F, C]) List(ctx context.Context, filter F, offset, limit int) ([]T, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := r.session(ctx, filter).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	entities := make([]T, 0, limit)
	err := r.session(ctx, filter).
		Order(primaryKeyColumn + " DESC").
		Offset(offset).
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return entities, int(total), nil
}

// Create inserts the entity and returns the stored row, looked up by the
// identifier the database generated for it.
func (r *Repository[T, F, C]) Create(ctx context.Context, entity T) (T, error) {
	var created T
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return created, translateError(err)
	}

	err := r.db.WithContext(ctx).
		Take(&created, primaryKeyColumn+" = ?", entity.PrimaryKey()).Error
	if err != nil {
		return created, translateError(err)
	}
	return created, nil
}

// Update writes the set fields of changes to the record with the given
// identifier. A missing record or an empty change set is a no-op.
func (r *Repository[T, F, C]) Update(ctx context.Context, id int, changes C) error {
	columns := changes.Columns()
	if len(columns) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(new(T)).
		Where(primaryKeyColumn+" = ?", id).
		Updates(columns).Error
	return translateError(err)
}

// Delete removes every record matching the filter. An empty filter is
// rejected with ErrEmptyFilter.
func (r *Repository[T, F, C]) Delete(ctx context.Context, filter F) error {
	conds := filter.Conditions()
	if len(conds) == 0 {
		return ErrEmptyFilter
	}
	return translateError(r.db.WithContext(ctx).Where(conds).Delete(new(T)).Error)
}

func (r *Repository[T, F, C]) session(ctx context.Context, filter F) *gorm.DB {
	tx := r.db.WithContext(ctx)
	if conds := filter.Conditions(); len(conds) > 0 {
		tx = tx.Where(conds)
	}
	return tx
}
