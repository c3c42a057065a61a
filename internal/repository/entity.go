package repository

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrMissingStorageKey reports a stored type whose StorageKey is empty.
var ErrMissingStorageKey = errors.New("must have a static storageKey property")

// Keyed is implemented by every stored type. StorageKey describes the type,
// not the instance: it is called on the zero value.
type Keyed interface {
	StorageKey() string
}

// Entity is a record that belongs to a tenant.
type Entity interface {
	Keyed
	Tenant() string
}

// Identifiable records can be deleted by id.
type Identifiable interface {
	Keyed
	Identifier() string
}

// Timestamped records carry an ISO-8601 timestamp and can be purged by age.
type Timestamped interface {
	Keyed
	ISOTimestamp() string
}

// Collection stores an arbitrary array under a tenant without an entity type.
type Collection[T any] struct {
	GuildID string
	Items   []T
}

func storageKeyOf[T Keyed]() (string, error) {
	var zero T
	typ := reflect.TypeFor[T]()
	if typ.Kind() == reflect.Pointer {
		zero = reflect.New(typ.Elem()).Interface().(T)
	}

	key := zero.StorageKey()
	if key == "" {
		return "", fmt.Errorf("type %s %w", typ, ErrMissingStorageKey)
	}
	return key, nil
}
