// Package sqlite stores investments in a single SQLite file using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/models"
)

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `CREATE TABLE IF NOT EXISTS investments (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	farmer_name TEXT NOT NULL,
	crop        TEXT NOT NULL,
	amount      TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS investments_created_at_idx ON investments (created_at DESC);`

type SQLiteInvestmentStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*SQLiteInvestmentStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteInvestmentStore{db: db, now: time.Now}, nil
}

func (s *SQLiteInvestmentStore) Create(ctx context.Context, in models.Input) (models.Investment, error) {
	const query = `INSERT INTO investments (farmer_name, crop, amount, created_at) VALUES (?, ?, ?, ?)`

	createdAt := s.now().UTC()
	res, err := s.db.ExecContext(ctx, query, in.FarmerName, in.Crop, in.Amount.String(), createdAt.Format(timeLayout))
	if err != nil {
		return models.Investment{}, fmt.Errorf("insert investment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Investment{}, fmt.Errorf("insert investment: %w", err)
	}

	return models.Investment{
		ID:         id,
		FarmerName: in.FarmerName,
		Crop:       in.Crop,
		Amount:     in.Amount,
		CreatedAt:  createdAt,
	}, nil
}

func (s *SQLiteInvestmentStore) List(ctx context.Context) ([]models.Investment, error) {
	const query = `SELECT id, farmer_name, crop, amount, created_at FROM investments
	ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	investments := make([]models.Investment, 0)
	for rows.Next() {
		var (
			inv       models.Investment
			createdAt string
		)
		if err := rows.Scan(&inv.ID, &inv.FarmerName, &inv.Crop, &inv.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		inv.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		investments = append(investments, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return investments, nil
}

func (s *SQLiteInvestmentStore) Close() error {
	return s.db.Close()
}

var _ interfaces.InvestmentStore = (*SQLiteInvestmentStore)(nil)
