// Package escrow moves study rewards between pre-existing token accounts. It
// never mints or burns value: the only balance-changing operation is the
// conserved transfer performed on study completion.
package escrow

import (
	"context"
	"fmt"
	"sync"

	"recrusearch/pkg/platform/sentinel"
)

// Ledger is the fungible balance collaborator. The hosting environment
// provides the authoritative implementation; MemoryLedger backs tests and
// single-node deployments.
type Ledger interface {
	BalanceOf(ctx context.Context, account string) (uint64, error)
	// Transfer debits from and credits to atomically; both legs apply or
	// neither does. Fails with sentinel.ErrConflict when the funding
	// account cannot cover amount.
	Transfer(ctx context.Context, from, to string, amount uint64) error
}

// MemoryLedger keeps balances under one mutex so a transfer is atomic by
// construction. Unknown accounts read as zero.
type MemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]uint64)}
}

// Mint credits an account outside transition scope. Bootstrap-only: funding
// researcher accounts happens before the registry opens for business.
func (l *MemoryLedger) Mint(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

func (l *MemoryLedger) BalanceOf(_ context.Context, account string) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account], nil
}

func (l *MemoryLedger) Transfer(_ context.Context, from, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return fmt.Errorf("transfer %d from %s: balance %d: %w",
			amount, from, l.balances[from], sentinel.ErrConflict)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}
