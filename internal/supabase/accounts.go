package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

// AccountDirectory reads accounts from a PostgREST table with id, email
// and full_name columns.
type AccountDirectory struct {
	client *supabase.Client
	table  string
}

func NewAccountDirectory(client *supabase.Client, table string) *AccountDirectory {
	return &AccountDirectory{client: client, table: table}
}

type accountRow struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Lookup returns the accounts for ids in the same order. PostgREST calls are
// not cancellable, so ctx is only checked before the request.
func (a *AccountDirectory) Lookup(ctx context.Context, ids []string) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []accountRow
	_, err := a.client.From(a.table).
		Select("id,email,full_name", "", false).
		In("id", ids).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}

	return orderAccounts(ids, rows)
}

func orderAccounts(ids []string, rows []accountRow) ([]models.Account, error) {
	byID := make(map[string]accountRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	accounts := make([]models.Account, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%s: %w", id, models.ErrAccountNotFound)
		}
		accounts = append(accounts, models.Account{ID: row.ID, Email: row.Email, DisplayName: row.FullName})
	}
	return accounts, nil
}
