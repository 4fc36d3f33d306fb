package api

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/render"
	"github.com/kryptokommunist/doyle-packing-sub000/internal/spiral"
)

// DefaultStoreLimit bounds the export store when no limit is configured.
// Exports are large (thousands of outline vertices), so the bound is small.
const DefaultStoreLimit = 12

// StoredSpiral holds one rendered spiral's export and the presentational
// options needed to re-render it.
type StoredSpiral struct {
	Export    *spiral.GeometryExport
	Options   render.Options
	CreatedAt time.Time
}

// ExportStore keeps recent geometry exports in memory with LRU eviction, so
// a viewer can fetch the export of a render it just requested.
type ExportStore struct {
	mu      sync.RWMutex
	entries map[string]*StoredSpiral
	order   []string // insertion order (oldest first)
	maxSize int
}

// NewExportStore creates a bounded export store.
func NewExportStore(maxSize int) *ExportStore {
	if maxSize <= 0 {
		maxSize = DefaultStoreLimit
	}
	return &ExportStore{
		entries: make(map[string]*StoredSpiral),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Put stores an export under a fresh id and returns the id.
func (s *ExportStore) Put(export *spiral.GeometryExport, opts render.Options) string {
	id := newSpiralID()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxSize {
		s.evict()
	}

	s.entries[id] = &StoredSpiral{
		Export:    export,
		Options:   opts,
		CreatedAt: time.Now(),
	}
	s.order = append(s.order, id)
	return id
}

// Get returns a stored export or nil.
func (s *ExportStore) Get(id string) (*StoredSpiral, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	return entry, ok
}

// Len returns the current store size.
func (s *ExportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evict removes the oldest stored export. Caller holds the lock.
func (s *ExportStore) evict() {
	if len(s.order) == 0 {
		return
	}
	oldest := s.order[0]
	s.order = s.order[1:]
	delete(s.entries, oldest)
}

func newSpiralID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to a timestamp id rather than crashing the request.
		return hex.EncodeToString([]byte(time.Now().Format("150405.000000000")))
	}
	return hex.EncodeToString(buf[:])
}
