package controllers

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"guildstore/internal/models"
	"guildstore/internal/providers"
	"guildstore/internal/registry"
	"guildstore/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.IntelServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.IntelServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type listEntry struct {
	models.IntelItem
	Presentation *registry.Presentation `json:"presentation,omitempty"`
}

type reportResponse struct {
	*services.ReportResult
	Presentation registry.Presentation `json:"presentation"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownType):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s failed: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func requireGuild(w http.ResponseWriter, r *http.Request) (string, bool) {
	guildID := r.URL.Query().Get("guild")
	if guildID == "" {
		http.Error(w, "guild is required", http.StatusBadRequest)
		return "", false
	}
	return guildID, true
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) error {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return nil
	}

	result, err := compute()
	if err != nil {
		return err
	}

	gson, err := json.Marshal(result)
	if err != nil {
		return err
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
	return nil
}

// ReportIntel stores one record built from the option values in the body.
func (ac *ApiController) ReportIntel(w http.ResponseWriter, r *http.Request) {
	guildID, ok := requireGuild(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	input := make(registry.Input, len(payload))
	for k, v := range payload {
		input[k] = cast.ToString(v)
	}

	res, err := ac.service.Report(guildID, r.URL.Query().Get("type"), input, r.URL.Query().Get("by"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.cache.Del(providers.ListCacheKey(guildID))

	presentation, err := ac.service.Present(res.Item)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reportResponse{ReportResult: res, Presentation: presentation})
}

// ListIntel returns the fresh records of a guild. The default window is
// served from the cache; an explicit maxAge always reads through.
func (ac *ApiController) ListIntel(w http.ResponseWriter, r *http.Request) {
	guildID, ok := requireGuild(w, r)
	if !ok {
		return
	}

	var maxAge time.Duration
	if raw := r.URL.Query().Get("maxAge"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			http.Error(w, "maxAge must be a positive duration", http.StatusBadRequest)
			return
		}
		maxAge = d
	}

	compute := func() (any, error) {
		items, err := ac.service.List(guildID, maxAge)
		if err != nil {
			return nil, err
		}
		entries := make([]listEntry, 0, len(items))
		for _, item := range items {
			entry := listEntry{IntelItem: item}
			if p, err := ac.service.Present(item); err == nil {
				entry.Presentation = &p
			} else {
				ac.logger.Warnf(providers.TypeGet, "Cannot present %s: %s", item.ID, err)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	}

	if maxAge > 0 {
		result, err := compute()
		if err != nil {
			ac.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	if err := ac.serveFromCacheOrCompute(w, providers.ListCacheKey(guildID), compute); err != nil {
		ac.writeError(w, r, err)
	}
}

func (ac *ApiController) DeleteIntel(w http.ResponseWriter, r *http.Request) {
	guildID, ok := requireGuild(w, r)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	deleted, err := ac.service.Delete(guildID, id)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	if !deleted {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.cache.Del(providers.ListCacheKey(guildID))
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ImportIntel appends a JSON array of records to a guild.
func (ac *ApiController) ImportIntel(w http.ResponseWriter, r *http.Request) {
	guildID, ok := requireGuild(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var items []models.IntelItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	n, err := ac.service.Import(guildID, items)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.cache.Del(providers.ListCacheKey(guildID))
	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}

func (ac *ApiController) GetTypes(w http.ResponseWriter, r *http.Request) {
	err := ac.serveFromCacheOrCompute(w, "types", func() (any, error) {
		return ac.service.Types(), nil
	})
	if err != nil {
		ac.writeError(w, r, err)
	}
}
