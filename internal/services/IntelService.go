package services

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"guildstore/internal/models"
	"guildstore/internal/providers"
	"guildstore/internal/registry"
	"guildstore/internal/repository"
	"guildstore/internal/structures"
)

// isoLayout matches the millisecond ISO-8601 form stored in intel records.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrUnknownType  = errors.New("unknown intel type")
	ErrInvalidInput = errors.New("invalid intel input")
)

type ReportResult struct {
	ID        string           `json:"id"`
	Timestamp string           `json:"timestamp"`
	Item      models.IntelItem `json:"item"`
	Message   string           `json:"message"`
}

type TypeInfo struct {
	Discriminator string            `json:"discriminator"`
	Options       []registry.Option `json:"options"`
}

type IntelServiceInterface interface {
	Report(guildID, discriminator string, input registry.Input, reportedBy string) (*ReportResult, error)
	List(guildID string, maxAge time.Duration) ([]models.IntelItem, error)
	Delete(guildID, id string) (bool, error)
	Import(guildID string, items []models.IntelItem) (int, error)
	Present(item models.IntelItem) (registry.Presentation, error)
	Types() []TypeInfo
	Sweep(maxAge time.Duration) (int, error)
}

type IntelService struct {
	repo     *repository.Repository
	registry *registry.Registry
	logger   providers.Logger
	cache    providers.CacheProviderInterface
	maxAge   time.Duration
	now      func() time.Time
}

func NewIntelService(repo *repository.Repository, reg *registry.Registry, conf *structures.Config, logger providers.Logger, cache providers.CacheProviderInterface) IntelServiceInterface {
	maxAge := conf.Purge.MaxAge
	if maxAge <= 0 {
		maxAge = repository.DefaultMaxAge
	}
	return &IntelService{
		repo:     repo,
		registry: reg,
		logger:   logger,
		cache:    cache,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

func (s *IntelService) handler(discriminator string) (registry.Handler, error) {
	h, ok := s.registry.GetHandler(discriminator)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, discriminator)
	}
	return h, nil
}

func (s *IntelService) timestamp() string {
	return s.now().UTC().Format(isoLayout)
}

// Report parses and validates input with the handler registered for
// discriminator and stores the resulting record for guildID.
func (s *IntelService) Report(guildID, discriminator string, input registry.Input, reportedBy string) (*ReportResult, error) {
	if guildID == "" {
		return nil, fmt.Errorf("%w: guild id is required", ErrInvalidInput)
	}
	h, err := s.handler(discriminator)
	if err != nil {
		return nil, err
	}

	content, err := h.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err = h.Validate(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}

	item := models.IntelItem{
		ID:         h.GenerateID(),
		GuildID:    guildID,
		Type:       discriminator,
		Timestamp:  s.timestamp(),
		ReportedBy: reportedBy,
		Content:    raw,
	}
	if err = repository.Store(s.repo, item); err != nil {
		return nil, err
	}

	return &ReportResult{
		ID:        item.ID,
		Timestamp: item.Timestamp,
		Item:      item,
		Message:   h.SuccessText(content, item.ID),
	}, nil
}

// List drops records older than maxAge for guildID and returns what is left.
// A non-positive maxAge uses the configured purge window.
func (s *IntelService) List(guildID string, maxAge time.Duration) ([]models.IntelItem, error) {
	if maxAge <= 0 {
		maxAge = s.maxAge
	}
	removed, err := repository.PurgeStaleItems[models.IntelItem](s.repo, guildID, maxAge)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		s.logger.Infof(providers.TypeStorage, "Purged %d stale intel records for guild %s", removed, guildID)
	}
	return repository.GetAll[models.IntelItem](s.repo, guildID)
}

func (s *IntelService) Delete(guildID, id string) (bool, error) {
	return repository.DeleteByID[models.IntelItem](s.repo, guildID, id)
}

// Import validates items against their handlers and appends them to guildID
// in one write. Missing ids and timestamps are filled in.
func (s *IntelService) Import(guildID string, items []models.IntelItem) (int, error) {
	if guildID == "" {
		return 0, fmt.Errorf("%w: guild id is required", ErrInvalidInput)
	}
	if len(items) == 0 {
		return 0, nil
	}

	prepared := make([]models.IntelItem, 0, len(items))
	for i, item := range items {
		if item.GuildID == "" {
			item.GuildID = guildID
		}
		if item.GuildID != guildID {
			return 0, fmt.Errorf("%w: item %d belongs to guild %s", ErrInvalidInput, i, item.GuildID)
		}

		h, err := s.handler(item.Type)
		if err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
		content, err := h.Decode(item.Content)
		if err != nil {
			return 0, fmt.Errorf("%w: item %d: %v", ErrInvalidInput, i, err)
		}
		if err = h.Validate(content); err != nil {
			return 0, fmt.Errorf("%w: item %d: %v", ErrInvalidInput, i, err)
		}

		if item.ID == "" {
			item.ID = h.GenerateID()
		} else if d, _, ok := registry.ParseID(item.ID); !ok || d != item.Type {
			return 0, fmt.Errorf("%w: item %d has id %q not matching type %s", ErrInvalidInput, i, item.ID, item.Type)
		}
		if item.Timestamp == "" {
			item.Timestamp = s.timestamp()
		} else if _, err = time.Parse(time.RFC3339Nano, item.Timestamp); err != nil {
			return 0, fmt.Errorf("%w: item %d timestamp: %v", ErrInvalidInput, i, err)
		}
		prepared = append(prepared, item)
	}

	err := repository.StoreCollection(s.repo, models.IntelStorageKey, repository.Collection[models.IntelItem]{
		GuildID: guildID,
		Items:   prepared,
	})
	if err != nil {
		return 0, err
	}
	return len(prepared), nil
}

// Present builds the presentation of a stored record with its handler.
func (s *IntelService) Present(item models.IntelItem) (registry.Presentation, error) {
	h, err := s.handler(item.Type)
	if err != nil {
		return registry.Presentation{}, err
	}
	content, err := h.Decode(item.Content)
	if err != nil {
		return registry.Presentation{}, fmt.Errorf("decode %s: %w", item.ID, err)
	}

	p := h.Present(content)
	p.Footer = item.ID + " | " + item.Timestamp
	if item.ReportedBy != "" {
		p.Footer += " | " + item.ReportedBy
	}
	return p, nil
}

func (s *IntelService) Types() []TypeInfo {
	types := make([]TypeInfo, 0)
	for _, d := range s.registry.GetRegisteredTypes() {
		if h, ok := s.registry.GetHandler(d); ok {
			types = append(types, TypeInfo{Discriminator: d, Options: h.Options()})
		}
	}
	return types
}

// Sweep purges stale intel records of every guild and returns the total
// removed. A failing guild does not stop the sweep.
func (s *IntelService) Sweep(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = s.maxAge
	}
	tenants, err := s.repo.Tenants()
	if err != nil {
		return 0, err
	}

	total := 0
	var errs []error
	for _, guildID := range tenants {
		removed, err := repository.PurgeStaleItems[models.IntelItem](s.repo, guildID, maxAge)
		if err != nil {
			errs = append(errs, fmt.Errorf("guild %s: %w", guildID, err))
			continue
		}
		if removed > 0 {
			s.cache.Del(providers.ListCacheKey(guildID))
		}
		total += removed
	}
	if total > 0 {
		s.logger.Infof(providers.TypeStorage, "Sweep purged %d intel records across %d guilds", total, len(tenants))
	}
	return total, errors.Join(errs...)
}
