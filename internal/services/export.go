package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"
)

const (
	snapshotRoot       = "snapshots"
	snapshotTimeLayout = "20060102T150405Z"
	manifestName       = "manifest.json"
	jsonContentType    = "application/json"
)

// ObjectStore is the part of object storage the exporter writes to.
// *storage.Storage satisfies it.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// TableSnapshot locates one exported table.
type TableSnapshot struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Manifest describes a complete snapshot. It is stored next to the tables.
type Manifest struct {
	Prefix    string          `json:"prefix"`
	CreatedAt time.Time       `json:"created_at"`
	Tables    []TableSnapshot `json:"tables"`
}

// Exporter writes JSON snapshots of every table to object storage.
type Exporter struct {
	users    *UserService
	products *ProductService
	orders   *OrderService
	store    ObjectStore
	now      func() time.Time
}

func NewExporter(users *UserService, products *ProductService, orders *OrderService, store ObjectStore) *Exporter {
	return &Exporter{
		users:    users,
		products: products,
		orders:   orders,
		store:    store,
		now:      time.Now,
	}
}

// Export writes snapshots/<timestamp>/{users,products,orders}.json and a
// manifest. Tables are read one after another, not in one transaction.
func (e *Exporter) Export(ctx context.Context) (Manifest, error) {
	createdAt := e.now().UTC()
	manifest := Manifest{
		Prefix:    path.Join(snapshotRoot, createdAt.Format(snapshotTimeLayout)),
		CreatedAt: createdAt,
	}

	users, err := e.users.All(ctx)
	if err != nil {
		return Manifest{}, err
	}
	products, err := e.products.All(ctx)
	if err != nil {
		return Manifest{}, err
	}
	orders, err := e.orders.All(ctx)
	if err != nil {
		return Manifest{}, err
	}

	tables := []struct {
		name  string
		rows  any
		count int
	}{
		{"users", users, len(users)},
		{"products", products, len(products)},
		{"orders", orders, len(orders)},
	}
	for _, table := range tables {
		key := path.Join(manifest.Prefix, table.name+".json")
		if err := e.putJSON(ctx, key, table.rows); err != nil {
			return Manifest{}, fmt.Errorf("export %s: %w", table.name, err)
		}
		manifest.Tables = append(manifest.Tables, TableSnapshot{
			Name:  table.name,
			Key:   key,
			Count: table.count,
		})
	}

	if err := e.putJSON(ctx, path.Join(manifest.Prefix, manifestName), manifest); err != nil {
		return Manifest{}, fmt.Errorf("export manifest: %w", err)
	}
	return manifest, nil
}

// Manifest reads the manifest of the snapshot stored under prefix.
func (e *Exporter) Manifest(ctx context.Context, prefix string) (Manifest, error) {
	rc, err := e.store.Get(ctx, path.Join(prefix, manifestName))
	if err != nil {
		return Manifest{}, err
	}
	defer rc.Close()

	var manifest Manifest
	if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return manifest, nil
}

func (e *Exporter) putJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return e.store.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), jsonContentType)
}
