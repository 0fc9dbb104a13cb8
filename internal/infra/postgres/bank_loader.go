package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizbot/internal/bank"
	"quizbot/internal/domain"
)

// BankLoader loads question bank JSONB from Postgres. Rows hold the same
// record array as the questions file, so validation is shared with the
// file loader.
type BankLoader struct {
	pool        *pgxpool.Pool
	bankID      string
	interactive bool
}

func NewBankLoader(pool *pgxpool.Pool, bankID string, interactive bool) *BankLoader {
	return &BankLoader{pool: pool, bankID: bankID, interactive: interactive}
}

func (l *BankLoader) LoadBank(ctx context.Context) (domain.Bank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, l.bankID).Scan(&raw)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load question bank %s: %w", l.bankID, err)
	}
	var records []bank.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal question bank %s: %w", l.bankID, err)
	}
	return bank.Build(records, l.interactive)
}
