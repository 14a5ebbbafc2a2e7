package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/noisevisionproductions/Vitema-sub001/internal/config"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// Accounts returns the account directory backed by the configured table.
func (c *Client) Accounts() *AccountDirectory {
	return NewAccountDirectory(c.Supabase, c.Config.SupabaseAccountsTable)
}
