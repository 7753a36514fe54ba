package interfaces

import (
	"context"

	"github.com/sheikh-saqib/farminvest/internal/models"
)

// InvestmentStore persists durable investments. Create assigns the id and
// the creation time.
type InvestmentStore interface {
	Create(ctx context.Context, in models.Input) (models.Investment, error)
	List(ctx context.Context) ([]models.Investment, error)
}
