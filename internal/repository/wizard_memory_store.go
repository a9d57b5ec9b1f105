package repository

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/swim-school-site/internal/models"
)

type memoryEntry struct {
	state     *models.WizardState
	expiresAt time.Time
}

// MemoryWizardStore keeps wizards in process memory. Entries expire lazily.
type MemoryWizardStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryWizardStore constructs an in-memory store.
func NewMemoryWizardStore(ttl time.Duration) *MemoryWizardStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &MemoryWizardStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryWizardStore) Create(_ context.Context, state *models.WizardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state.ID] = memoryEntry{state: cloneWizard(state), expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryWizardStore) Get(_ context.Context, id string) (*models.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(id)
	if !ok {
		return nil, errWizardNotFound
	}
	return cloneWizard(entry.state), nil
}

// Update applies fn to a copy of the stored wizard and keeps the result when fn succeeds.
// A wizard removed while fn ran is not resurrected.
func (s *MemoryWizardStore) Update(_ context.Context, id string, fn func(*models.WizardState) error) (*models.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(id)
	if !ok {
		return nil, errWizardNotFound
	}
	working := cloneWizard(entry.state)
	if err := fn(working); err != nil {
		return cloneWizard(working), err
	}
	s.entries[id] = memoryEntry{state: working, expiresAt: s.now().Add(s.ttl)}
	return cloneWizard(working), nil
}

func (s *MemoryWizardStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(id); !ok {
		return errWizardNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryWizardStore) Ping(context.Context) error { return nil }

func (s *MemoryWizardStore) lookup(id string) (memoryEntry, bool) {
	entry, ok := s.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return memoryEntry{}, false
	}
	return entry, true
}
