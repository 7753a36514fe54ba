package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/models"
)

// MemoryInvestmentStore is an in-memory implementation of InvestmentStore.
// Ids are assigned from a counter starting at 1; it is safe for concurrent use.
type MemoryInvestmentStore struct {
	mu          sync.Mutex
	investments []models.Investment
	nextID      int64
	now         func() time.Time
}

// NewMemoryInvestmentStore creates an empty store using the wall clock.
func NewMemoryInvestmentStore() *MemoryInvestmentStore {
	return NewMemoryInvestmentStoreWithClock(time.Now)
}

// NewMemoryInvestmentStoreWithClock lets tests pin creation times.
func NewMemoryInvestmentStoreWithClock(now func() time.Time) *MemoryInvestmentStore {
	return &MemoryInvestmentStore{
		investments: make([]models.Investment, 0),
		nextID:      1,
		now:         now,
	}
}

// Create stores a new investment. Identical inputs produce distinct records.
func (m *MemoryInvestmentStore) Create(ctx context.Context, in models.Input) (models.Investment, error) {
	if err := ctx.Err(); err != nil {
		return models.Investment{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	inv := models.Investment{
		ID:         m.nextID,
		FarmerName: in.FarmerName,
		Crop:       in.Crop,
		Amount:     in.Amount,
		CreatedAt:  m.now().UTC(),
	}
	m.nextID++
	m.investments = append(m.investments, inv)
	return inv, nil
}

// List returns a copy of all investments, newest first.
func (m *MemoryInvestmentStore) List(ctx context.Context) ([]models.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Investment, len(m.investments))
	copy(copied, m.investments)

	// ties fall back to the higher id first, like ORDER BY created_at DESC, id DESC
	sort.SliceStable(copied, func(i, j int) bool {
		if !copied[i].CreatedAt.Equal(copied[j].CreatedAt) {
			return copied[i].CreatedAt.After(copied[j].CreatedAt)
		}
		return copied[i].ID > copied[j].ID
	})
	return copied, nil
}

// Compile-time check: ensure MemoryInvestmentStore implements InvestmentStore
var _ interfaces.InvestmentStore = (*MemoryInvestmentStore)(nil)
