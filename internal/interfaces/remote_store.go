package interfaces

import (
	"context"

	"github.com/sheikh-saqib/farminvest/internal/models"
)

// RemoteStore is the authority the optimistic manager reconciles against.
type RemoteStore interface {
	ListInvestments(ctx context.Context) ([]models.Investment, error)
	CreateInvestment(ctx context.Context, in models.Input) (models.Investment, error)
}

// ReasonError is implemented by transport errors that carry a reason given
// by the store itself, e.g. the "error" field of a 400 body.
type ReasonError interface {
	error
	Reason() (string, bool)
}
