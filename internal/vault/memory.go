package vault

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hearthlabs/hearthcore/internal/common"
)

// MemoryRepository is an in-process record store for tests and
// single-process deployments.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[memKey]*Record
}

type memKey struct {
	userID     string
	collection string
	recordID   string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[memKey]*Record)}
}

func (m *MemoryRepository) Put(_ context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := memKey{r.UserID, r.Collection, r.RecordID}
	now := time.Now()
	stored := cloneRecord(r)
	stored.UpdatedAt = now
	if prev, ok := m.records[k]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	m.records[k] = stored
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, userID, collection, recordID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[memKey{userID, collection, recordID}]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneRecord(r), nil
}

func (m *MemoryRepository) Delete(_ context.Context, userID, collection, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, memKey{userID, collection, recordID})
	return nil
}

func (m *MemoryRepository) List(_ context.Context, userID, collection string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0)
	for k := range m.records {
		if k.userID == userID && k.collection == collection {
			ids = append(ids, k.recordID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// cloneRecord copies a record including its byte slices so callers
// cannot mutate stored state through aliases.
func cloneRecord(r *Record) *Record {
	out := *r
	out.Ciphertext = append([]byte(nil), r.Ciphertext...)
	out.Nonce = append([]byte(nil), r.Nonce...)
	return &out
}
