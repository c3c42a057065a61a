// Package repository is the typed, tenant-scoped façade over the document.
//
// A Repository starts disabled. Until Initialize is given a file path every
// operation returns its disabled result (nothing stored, empty slice, zero,
// false) instead of an error, so a missing persistence configuration never
// breaks callers. Only Store and StoreCollection log when they are skipped.
//
// Go methods cannot take type parameters, so the typed operations are
// package functions taking the Repository as first argument:
//
//	repository.Store(repo, item)
//	items, err := repository.GetAll[models.IntelItem](repo, guildID)
//	removed, err := repository.PurgeStale[models.IntelItem](repo, guildID)
//
// All operations are serialized on the Repository; callers that need
// ordering across calls must wait for each call to return.
package repository

import (
	"errors"
	"fmt"
	"guildstore/internal/document"
	"guildstore/internal/providers"
	"guildstore/internal/registry"
	"guildstore/internal/storage"
	"slices"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultMaxAge is the purge window used by PurgeStale.
const DefaultMaxAge = 168 * time.Hour

type Config struct {
	FilePath string
}

type Repository struct {
	mu      sync.Mutex
	conf    *Config
	store   document.StoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	tracker *registry.Tracker
	now     func() time.Time
}

func NewRepository(store document.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, tracker *registry.Tracker) *Repository {
	return &Repository{
		store:   store,
		logger:  logger,
		metrics: metrics,
		tracker: tracker,
		now:     time.Now,
	}
}

// Initialize records conf. It may be called again; the latest configuration
// wins and already stored data is kept. An open document stays bound to the
// path it was opened with until ResetDocument.
func (r *Repository) Initialize(conf Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := conf
	r.conf = &c
	r.logger.Infof(providers.TypeStorage, "Repository initialized with %s", conf.FilePath)
}

func (r *Repository) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled()
}

func (r *Repository) enabled() bool {
	return r.conf != nil && r.conf.FilePath != ""
}

// ResetDocument drops the open document handle; the next operation reopens
// it from the configured path.
func (r *Repository) ResetDocument() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.Reset()
}

func Store[T Entity](r *Repository, entity T) error {
	_, err := guard(r, opStore, struct{}{}, func(ops *storage.Ops) (struct{}, error) {
		key, err := storageKeyOf[T]()
		if err != nil {
			return struct{}{}, err
		}
		r.tracker.Track(key)
		return struct{}{}, ops.StoreData(entity.Tenant(), key, entity)
	})
	return r.swallow(opStore, err)
}

// StoreCollection appends c.Items under (c.GuildID, storageKey).
func StoreCollection[T any](r *Repository, storageKey string, c Collection[T]) error {
	_, err := guard(r, opStoreCollection, struct{}{}, func(ops *storage.Ops) (struct{}, error) {
		if storageKey == "" {
			return struct{}{}, fmt.Errorf("collection for guild %s %w", c.GuildID, ErrMissingStorageKey)
		}
		r.tracker.Track(storageKey)
		items := make([]any, len(c.Items))
		for i, item := range c.Items {
			items[i] = item
		}
		return struct{}{}, ops.StoreCollection(c.GuildID, storageKey, items)
	})
	return r.swallow(opStoreCollection, err)
}

// swallow logs backing-store failures of best-effort writes. Schema errors
// are programming errors and are returned.
func (r *Repository) swallow(op operation, err error) error {
	if err == nil || errors.Is(err, ErrMissingStorageKey) {
		return err
	}
	r.logger.Errorf(providers.TypeStorage, "Repository %s failed: %s", op, err)
	return nil
}

// GetAll returns the records of type T stored for tenantID in insertion order.
// The result is decoded from the document; treat it as read-only.
func GetAll[T Keyed](r *Repository, tenantID string) ([]T, error) {
	return guard(r, opGetAll, []T{}, func(ops *storage.Ops) ([]T, error) {
		key, err := storageKeyOf[T]()
		if err != nil {
			return []T{}, err
		}
		r.tracker.Track(key)

		raws, err := ops.Get(tenantID, key)
		if err != nil {
			return []T{}, err
		}
		return decodeAll[T](raws)
	})
}

// ReplaceAll sets the records of type T for tenantID to exactly items.
func ReplaceAll[T Keyed](r *Repository, tenantID string, items []T) error {
	_, err := guard(r, opReplaceAll, struct{}{}, func(ops *storage.Ops) (struct{}, error) {
		key, err := storageKeyOf[T]()
		if err != nil {
			return struct{}{}, err
		}
		r.tracker.Track(key)

		encoded := make([]json.RawMessage, 0, len(items))
		for _, item := range items {
			raw, err := json.Marshal(item)
			if err != nil {
				return struct{}{}, err
			}
			encoded = append(encoded, raw)
		}
		return struct{}{}, ops.Replace(tenantID, key, encoded)
	})
	return err
}

// PurgeStale purges with DefaultMaxAge.
func PurgeStale[T Timestamped](r *Repository, tenantID string) (int, error) {
	return PurgeStaleItems[T](r, tenantID, DefaultMaxAge)
}

// PurgeStaleItems removes the records of type T for tenantID whose age is
// strictly greater than maxAge and returns how many were removed. A record
// exactly maxAge old is kept, and so is one whose timestamp cannot be parsed.
func PurgeStaleItems[T Timestamped](r *Repository, tenantID string, maxAge time.Duration) (int, error) {
	return guard(r, opPurge, 0, func(ops *storage.Ops) (int, error) {
		key, err := storageKeyOf[T]()
		if err != nil {
			return 0, err
		}
		r.tracker.Track(key)

		raws, err := ops.Get(tenantID, key)
		if err != nil {
			return 0, err
		}

		now := r.now()
		fresh := make([]json.RawMessage, 0, len(raws))
		for _, raw := range raws {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return 0, err
			}
			ts, err := time.Parse(time.RFC3339Nano, item.ISOTimestamp())
			if err != nil {
				r.logger.Warnf(providers.TypeStorage, "Keeping %s record with unparseable timestamp %q", key, item.ISOTimestamp())
				fresh = append(fresh, raw)
				continue
			}
			if now.Sub(ts) <= maxAge {
				fresh = append(fresh, raw)
			}
		}

		stale := len(raws) - len(fresh)
		if stale == 0 {
			return 0, nil
		}
		if err := ops.Replace(tenantID, key, fresh); err != nil {
			return 0, err
		}
		r.metrics.AddPurged(key, stale)
		return stale, nil
	})
}

// DeleteByID removes the first record of type T for tenantID whose id equals
// id. It reports false without writing when no record matches.
func DeleteByID[T Identifiable](r *Repository, tenantID, id string) (bool, error) {
	return guard(r, opDelete, false, func(ops *storage.Ops) (bool, error) {
		key, err := storageKeyOf[T]()
		if err != nil {
			return false, err
		}
		r.tracker.Track(key)

		raws, err := ops.Get(tenantID, key)
		if err != nil {
			return false, err
		}

		idx := -1
		for i, raw := range raws {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return false, err
			}
			if item.Identifier() == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, nil
		}

		remaining := slices.Concat(raws[:idx], raws[idx+1:])
		if err := ops.Replace(tenantID, key, remaining); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Tenants lists the tenant ids present in the document.
func (r *Repository) Tenants() ([]string, error) {
	return guard(r, opTenants, []string(nil), func(ops *storage.Ops) ([]string, error) {
		return ops.Tenants()
	})
}

// Snapshot returns the encoded document, or nil while the repository is disabled.
func (r *Repository) Snapshot() ([]byte, error) {
	return guard(r, opSnapshot, []byte(nil), func(ops *storage.Ops) ([]byte, error) {
		if err := ops.Open(); err != nil {
			return nil, err
		}
		return r.store.Snapshot()
	})
}

func decodeAll[T any](raws []json.RawMessage) ([]T, error) {
	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return []T{}, err
		}
		items = append(items, item)
	}
	return items, nil
}
