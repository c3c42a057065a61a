package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"guildstore/internal/providers"
)

// Document is the whole persisted state: tenant id -> storage key -> records.
// Records stay encoded so that heterogeneous shapes survive a round trip untouched.
type Document map[string]map[string][]json.RawMessage

var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrNotOpen           = errors.New("document is not open")
)

// Store exclusively owns the backing file and the in-memory document.
// It is constructed once per process and opened lazily on first use.
type Store struct {
	mu      sync.Mutex
	path    string
	data    Document
	open    bool
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewStore(logger providers.Logger, metrics providers.MetricsProviderInterface) *Store {
	return &Store{
		logger:  logger,
		metrics: metrics,
	}
}

// Open loads the document at path. It is a no-op when the store is already
// open, whatever path it was opened with. A failed open leaves the store closed.
func (s *Store) Open(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	data, err := readDocument(path)
	if err != nil {
		s.data = nil
		s.path = ""
		s.open = false
		return err
	}

	s.data = data
	s.path = path
	s.open = true
	s.logger.Infof(providers.TypeStorage, "Opened document %s (%d tenants)", path, len(data))
	return nil
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Data returns the live document. Mutations must be followed by Persist.
func (s *Store) Data() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Persist writes the whole document back to disk. On failure the in-memory
// document keeps its mutations.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrNotOpen
	}

	start := time.Now()
	jsonData, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err = writeFileAtomic(s.path, jsonData); err != nil {
		return fmt.Errorf("persist document %s: %w", s.path, err)
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

// Snapshot returns the compact encoding of the live document, or nil when
// the store is not open.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, nil
	}
	return json.Marshal(s.data)
}

// Reset drops the handle so the next Open reads from disk again.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil
	s.path = ""
	s.open = false
}

func readDocument(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	return decodeDocument(raw)
}

func decodeDocument(raw []byte) (Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, nil
	}

	var data Document
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if data == nil {
		data = Document{}
	}
	return data, nil
}
