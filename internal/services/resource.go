package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/orderdesk/apiserver/internal/logger"
	"github.com/orderdesk/apiserver/internal/store"
	"go.uber.org/zap"
)

// ErrEmptyResult is returned by List when the resource has no records at all.
var ErrEmptyResult = errors.New("no records found")

// Repository defines the persistence operations a Resource relies on.
// *store.Repository satisfies it.
type Repository[T store.Record, F store.Filter, C store.Changes] interface {
	GetOne(ctx context.Context, filter F) (T, error)
	GetAll(ctx context.Context, filter F) ([]T, error)
	List(ctx context.Context, filter F, offset, limit int) ([]T, int, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, id int, changes C) error
	Delete(ctx context.Context, filter F) error
}

// OperationRecorder counts service operations.
type OperationRecorder interface {
	RecordOperation(resource, operation string, err error)
}

// Options carries the optional collaborators of a Resource.
type Options struct {
	Events  EventPublisher
	Metrics OperationRecorder
}

// Resource implements the list/get/create/update/delete use-cases shared by
// every entity. The per-entity pieces are supplied as functions.
type Resource[T store.Record, F store.Filter, C store.Changes] struct {
	name    string
	channel string
	repo    Repository[T, F, C]

	byID func(id int) F

	// naturalKey returns the filter that must not match another record
	// before entity is created. ok is false when the entity has none.
	naturalKey func(entity T) (filter F, ok bool)
	// changedKey is naturalKey for an update. ok is false when changes
	// leave the key untouched.
	changedKey func(changes C) (filter F, ok bool)
	conflict   func(key F) string

	prepare func(entity *T) error

	events  EventPublisher
	metrics OperationRecorder
}

// Name returns the singular resource name, e.g. "user".
func (s *Resource[T, F, C]) Name() string {
	return s.name
}

// List returns one page of records, newest first, and the total count.
// An empty store yields ErrEmptyResult.
func (s *Resource[T, F, C]) List(ctx context.Context, offset, limit int) (items []T, total int, err error) {
	defer func() { s.record("list", err) }()

	var all F
	items, total, err = s.repo.List(ctx, all, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list %ss: %w", s.name, err)
	}
	if total == 0 {
		return nil, 0, fmt.Errorf("%ss: %w", s.name, ErrEmptyResult)
	}
	return items, total, nil
}

// All returns every record, newest first.
func (s *Resource[T, F, C]) All(ctx context.Context) ([]T, error) {
	var all F
	items, err := s.repo.GetAll(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", s.name, err)
	}
	return items, nil
}

// Get returns the record with the given identifier.
func (s *Resource[T, F, C]) Get(ctx context.Context, id int) (T, error) {
	entity, err := s.repo.GetOne(ctx, s.byID(id))
	if err != nil {
		return entity, fmt.Errorf("%s %d: %w", s.name, id, err)
	}
	return entity, nil
}

// Create stores a new record. A record already holding the entity's
// natural key yields store.ErrConflict.
//
// The natural key lookup and the insert are separate statements, so two
// concurrent creates may both pass the lookup. Only a unique index closes
// that window.
func (s *Resource[T, F, C]) Create(ctx context.Context, entity T) (created T, err error) {
	defer func() { s.record("create", err) }()

	if s.prepare != nil {
		if err := s.prepare(&entity); err != nil {
			return created, err
		}
	}

	if s.naturalKey != nil {
		if filter, ok := s.naturalKey(entity); ok {
			if err = s.checkKey(ctx, filter, 0); err != nil {
				return created, err
			}
		}
	}

	created, err = s.repo.Create(ctx, entity)
	if err != nil {
		return created, fmt.Errorf("create %s: %w", s.name, err)
	}

	s.publish(ctx, "created", created.PrimaryKey(), created)
	return created, nil
}

// Update applies the set fields of changes to an existing record and
// returns the stored result. Moving the record onto a natural key held by
// another record yields store.ErrConflict.
func (s *Resource[T, F, C]) Update(ctx context.Context, id int, changes C) (updated T, err error) {
	defer func() { s.record("update", err) }()

	if _, err = s.Get(ctx, id); err != nil {
		return updated, err
	}
	if s.changedKey != nil {
		if filter, ok := s.changedKey(changes); ok {
			if err = s.checkKey(ctx, filter, id); err != nil {
				return updated, err
			}
		}
	}
	if err = s.repo.Update(ctx, id, changes); err != nil {
		return updated, fmt.Errorf("update %s %d: %w", s.name, id, err)
	}
	if updated, err = s.Get(ctx, id); err != nil {
		return updated, err
	}

	s.publish(ctx, "updated", id, updated)
	return updated, nil
}

// Delete removes an existing record.
func (s *Resource[T, F, C]) Delete(ctx context.Context, id int) (err error) {
	defer func() { s.record("delete", err) }()

	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = s.repo.Delete(ctx, s.byID(id)); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.name, id, err)
	}

	s.publish(ctx, "deleted", id, existing)
	return nil
}

// checkKey fails with store.ErrConflict when a record other than self
// matches the natural key filter. self is 0 for records not yet stored.
func (s *Resource[T, F, C]) checkKey(ctx context.Context, filter F, self int) error {
	existing, err := s.repo.GetOne(ctx, filter)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check %s: %w", s.name, err)
	case existing.PrimaryKey() == self:
		return nil
	}
	return fmt.Errorf("%w: %s", store.ErrConflict, s.conflict(filter))
}

func (s *Resource[T, F, C]) publish(ctx context.Context, action string, id int, entity T) {
	if s.events == nil {
		return
	}
	event := newEvent(s.channel, action, id, entity)
	if err := publishEvent(ctx, s.events, event); err != nil {
		logger.FromContext(ctx).Warn("failed to publish event",
			zap.String("event", event.Type),
			zap.Int("id", id),
			zap.Error(err),
		)
	}
}

func (s *Resource[T, F, C]) record(operation string, err error) {
	if s.metrics != nil {
		s.metrics.RecordOperation(s.name, operation, err)
	}
}
