package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/models"
	"github.com/sheikh-saqib/farminvest/internal/models/events"
	"github.com/sheikh-saqib/farminvest/internal/validation"
)

var (
	investmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farminvest_investments_created_total",
		Help: "Investments persisted by the store.",
	})
	investmentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farminvest_investments_rejected_total",
		Help: "Create requests rejected by validation, by reason.",
	}, []string{"reason"})
)

// Ledger is the store-side service behind the investments API.
// It validates input, persists it and announces every new investment.
type Ledger struct {
	store     interfaces.InvestmentStore
	publisher interfaces.EventPublisher
	logger    *slog.Logger
}

// NewLedger wires a storage implementation (memory, postgres, sqlite) and
// an event publisher.
func NewLedger(store interfaces.InvestmentStore, publisher interfaces.EventPublisher, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// PostInvestment validates the candidate with the same rules the client
// applies, then persists it. Identical candidates are not deduplicated.
func (l *Ledger) PostInvestment(ctx context.Context, c validation.Candidate) (models.Investment, error) {
	in, err := validation.Validate(c)
	if err != nil {
		investmentsRejected.WithLabelValues(apperrors.Message(err)).Inc()
		return models.Investment{}, err
	}

	inv, err := l.store.Create(ctx, in)
	if err != nil {
		l.logger.ErrorContext(ctx, "error creating investment", "error", err)
		return models.Investment{}, apperrors.Wrap(apperrors.CodeInternal, "failed to create investment", err)
	}
	investmentsCreated.Inc()

	// the investment is already durable; a lost event must not fail the request
	event := events.InvestmentCreated{
		InvestmentID: inv.ID,
		FarmerName:   inv.FarmerName,
		Crop:         inv.Crop,
		Amount:       inv.Amount,
		OccurredAt:   time.Now().UTC(),
	}
	if err := l.publisher.Publish(ctx, events.InvestmentCreatedTopic, event); err != nil {
		l.logger.WarnContext(ctx, "failed to publish investment event", "id", inv.ID, "error", err)
	}

	return inv, nil
}

// ListInvestments returns all investments, newest first.
func (l *Ledger) ListInvestments(ctx context.Context) ([]models.Investment, error) {
	investments, err := l.store.List(ctx)
	if err != nil {
		l.logger.ErrorContext(ctx, "error fetching investments", "error", err)
		return []models.Investment{}, apperrors.Wrap(apperrors.CodeInternal, "failed to fetch investments", err)
	}
	return investments, nil
}
