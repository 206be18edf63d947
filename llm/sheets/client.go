package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"remedy/llm"
)

// ValueSource provides raw worksheet grids. Satisfied by *Client.
type ValueSource interface {
	// Table returns the full value grid of one worksheet, header row first.
	Table(ctx context.Context, name string) ([][]interface{}, error)
}

// ClientConfig holds connection settings for the source spreadsheet.
type ClientConfig struct {
	SpreadsheetID   string
	CredentialsFile string // service-account JSON; empty uses application-default credentials
}

// Client wraps the Google Sheets API for read-only access to one spreadsheet.
type Client struct {
	srv           *sheets.Service
	spreadsheetID string
}

// NewClient authenticates against the Sheets API with a service-account
// credential file.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	opts := []option.ClientOption{
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, llm.WrapSourceUnavailable(fmt.Errorf("create sheets service: %w", err))
	}

	return &Client{srv: srv, spreadsheetID: cfg.SpreadsheetID}, nil
}

// Table fetches one worksheet in a single synchronous call. No pagination or
// retry; a failed fetch fails the whole load.
func (c *Client) Table(ctx context.Context, name string) ([][]interface{}, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, name).Context(ctx).Do()
	if err != nil {
		return nil, llm.WrapSourceUnavailable(fmt.Errorf("read worksheet %q: %w", name, err))
	}
	return resp.Values, nil
}
