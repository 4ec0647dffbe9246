package transaction

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage []Transaction
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Record(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = append(r.storage, tx)
	return nil
}

func (r *memoryRepository) ListByWallets(_ context.Context, walletIDs []string) ([]Transaction, error) {
	wanted := make(map[string]struct{}, len(walletIDs))
	for _, id := range walletIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var txs []Transaction
	for _, tx := range r.storage {
		if _, ok := wanted[tx.FromWalletID]; ok {
			txs = append(txs, tx)
			continue
		}
		if _, ok := wanted[tx.ToWalletID]; ok {
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	return txs, nil
}
