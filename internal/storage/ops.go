// Package storage manages tenant and storage-key buckets inside the document.
//
// Every operation opens the document lazily, touches exactly one tenant
// bucket and persists the whole document after mutating it.
package storage

import (
	"fmt"
	"slices"

	json "github.com/goccy/go-json"

	"guildstore/internal/document"
)

type Ops struct {
	store document.StoreInterface
	path  string
}

func NewOps(store document.StoreInterface, path string) *Ops {
	return &Ops{store: store, path: path}
}

// Open opens the backing document if it is not open yet.
func (o *Ops) Open() error {
	return o.store.Open(o.path)
}

func (o *Ops) open() (document.Document, error) {
	if err := o.store.Open(o.path); err != nil {
		return nil, err
	}
	return o.store.Data(), nil
}

// bucket returns the array under (tenantID, storageKey), creating the tenant
// mapping and the empty array when they are absent.
func bucket(data document.Document, tenantID, storageKey string) []json.RawMessage {
	tenant, ok := data[tenantID]
	if !ok || tenant == nil {
		tenant = make(map[string][]json.RawMessage)
		data[tenantID] = tenant
	}
	items, ok := tenant[storageKey]
	if !ok || items == nil {
		items = make([]json.RawMessage, 0)
		tenant[storageKey] = items
	}
	return items
}

// StoreData appends record to the (tenantID, storageKey) array. Storing the
// same record twice yields two entries.
func (o *Ops) StoreData(tenantID, storageKey string, record any) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record for %s/%s: %w", tenantID, storageKey, err)
	}
	return o.append(tenantID, storageKey, encoded)
}

// StoreCollection appends every element of items to the (tenantID, storageKey) array.
func (o *Ops) StoreCollection(tenantID, storageKey string, items []any) error {
	encoded := make([]json.RawMessage, 0, len(items))
	for i, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode collection item %d for %s/%s: %w", i, tenantID, storageKey, err)
		}
		encoded = append(encoded, raw)
	}
	return o.append(tenantID, storageKey, encoded...)
}

func (o *Ops) append(tenantID, storageKey string, records ...json.RawMessage) error {
	data, err := o.open()
	if err != nil {
		return err
	}

	items := bucket(data, tenantID, storageKey)
	data[tenantID][storageKey] = append(items, records...)
	return o.store.Persist()
}

// Get returns the (tenantID, storageKey) array without copying it, or an
// empty array when either bucket is absent. Get never creates buckets.
func (o *Ops) Get(tenantID, storageKey string) ([]json.RawMessage, error) {
	data, err := o.open()
	if err != nil {
		return nil, err
	}

	items := data[tenantID][storageKey]
	if items == nil {
		return []json.RawMessage{}, nil
	}
	return items, nil
}

// Replace sets the (tenantID, storageKey) array to exactly items.
func (o *Ops) Replace(tenantID, storageKey string, items []json.RawMessage) error {
	data, err := o.open()
	if err != nil {
		return err
	}

	bucket(data, tenantID, storageKey)
	if items == nil {
		items = make([]json.RawMessage, 0)
	}
	data[tenantID][storageKey] = items
	return o.store.Persist()
}

// Tenants lists every tenant id present in the document.
func (o *Ops) Tenants() ([]string, error) {
	data, err := o.open()
	if err != nil {
		return nil, err
	}

	tenants := make([]string, 0, len(data))
	for id := range data {
		tenants = append(tenants, id)
	}
	slices.Sort(tenants)
	return tenants, nil
}
