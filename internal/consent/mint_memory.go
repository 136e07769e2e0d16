package consent

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"recrusearch/internal/domain"
)

// MemoryMint is the in-process capability mint. References are random UUIDs;
// the holder is kept so tests can assert ownership.
type MemoryMint struct {
	mu     sync.Mutex
	issued map[string]domain.Authority
}

func NewMemoryMint() *MemoryMint {
	return &MemoryMint{issued: make(map[string]domain.Authority)}
}

func (m *MemoryMint) Mint(_ context.Context, holder domain.Authority) (string, error) {
	ref := uuid.NewString()
	m.mu.Lock()
	m.issued[ref] = holder
	m.mu.Unlock()
	return ref, nil
}

func (m *MemoryMint) Burn(_ context.Context, tokenRef string) error {
	m.mu.Lock()
	delete(m.issued, tokenRef)
	m.mu.Unlock()
	return nil
}

// Holder returns the authority a reference was minted for, and whether the
// reference is still live.
func (m *MemoryMint) Holder(tokenRef string) (domain.Authority, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	holder, ok := m.issued[tokenRef]
	return holder, ok
}
