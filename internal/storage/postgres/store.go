package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/models"
)

const schema = `CREATE TABLE IF NOT EXISTS investments (
	id          BIGSERIAL PRIMARY KEY,
	farmer_name TEXT NOT NULL,
	crop        TEXT NOT NULL,
	amount      NUMERIC(23, 8) NOT NULL CHECK (amount > 0),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
ALTER TABLE investments ALTER COLUMN amount TYPE NUMERIC(23, 8);
CREATE INDEX IF NOT EXISTS investments_created_at_idx ON investments (created_at DESC)`

// The amount column holds every value validation.ParseAmount accepts
// (below 10^15, at most 8 decimal places) without rounding.

type PostgresInvestmentStore struct {
	db *sql.DB
}

// Open connects with the lib/pq driver and makes sure the schema exists.
func Open(ctx context.Context, dsn string) (*PostgresInvestmentStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := NewPostgresInvestmentStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewPostgresInvestmentStore(db *sql.DB) *PostgresInvestmentStore {
	return &PostgresInvestmentStore{
		db: db,
	}
}

func (p *PostgresInvestmentStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (p *PostgresInvestmentStore) Create(ctx context.Context, in models.Input) (models.Investment, error) {
	const query = `INSERT INTO investments (farmer_name, crop, amount)
	VALUES ($1, $2, $3)
	RETURNING id, farmer_name, crop, amount, created_at`

	var inv models.Investment
	err := p.db.QueryRowContext(ctx, query, in.FarmerName, in.Crop, in.Amount).Scan(
		&inv.ID,
		&inv.FarmerName,
		&inv.Crop,
		&inv.Amount,
		&inv.CreatedAt,
	)
	if err != nil {
		return models.Investment{}, fmt.Errorf("insert investment: %w", err)
	}
	inv.CreatedAt = inv.CreatedAt.UTC()
	return inv, nil
}

func (p *PostgresInvestmentStore) List(ctx context.Context) ([]models.Investment, error) {
	const query = `SELECT id, farmer_name, crop, amount, created_at FROM investments
	ORDER BY created_at DESC, id DESC`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	investments := make([]models.Investment, 0)
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.FarmerName, &inv.Crop, &inv.Amount, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		inv.CreatedAt = inv.CreatedAt.UTC()
		investments = append(investments, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return investments, nil
}

func (p *PostgresInvestmentStore) Close() error {
	return p.db.Close()
}

var _ interfaces.InvestmentStore = (*PostgresInvestmentStore)(nil)
