package repository

import (
	"guildstore/internal/providers"
	"guildstore/internal/storage"
)

type operation string

const (
	opStore           operation = "store"
	opStoreCollection operation = "storeCollection"
	opGetAll          operation = "getAll"
	opReplaceAll      operation = "replaceAll"
	opPurge           operation = "purgeStaleItems"
	opDelete          operation = "deleteById"
	opTenants         operation = "tenants"
	opSnapshot        operation = "snapshot"
)

// warnWhenDisabled lists the operations that log when skipped; the rest
// return their disabled result silently.
var warnWhenDisabled = map[operation]bool{
	opStore:           true,
	opStoreCollection: true,
}

// guard runs fn under the repository lock when the repository is
// initialized and returns disabled otherwise.
func guard[R any](r *Repository, op operation, disabled R, fn func(ops *storage.Ops) (R, error)) (R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled() {
		if warnWhenDisabled[op] {
			r.logger.Warnf(providers.TypeStorage, "Repository not initialized, %s skipped", op)
		}
		r.metrics.IncOperations(string(op), "disabled")
		return disabled, nil
	}

	res, err := fn(storage.NewOps(r.store, r.conf.FilePath))
	if err != nil {
		r.metrics.IncOperations(string(op), "error")
		return res, err
	}
	r.metrics.IncOperations(string(op), "ok")
	return res, nil
}
