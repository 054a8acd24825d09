// Package sheets reads the external TPA spreadsheet through the Google
// Sheets API. The spreadsheet is maintained by the insurance desk outside
// the HIS, so fetches are retried a fixed number of times and then degrade
// to an empty table rather than failing the whole refresh.
package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/meditrak/opsdash/internal/source"
)

// Client wraps a read-only Sheets service authenticated with a service
// account.
type Client struct {
	svc     *sheetsv4.Service
	retries int
	delay   time.Duration
	log     zerolog.Logger
}

// New builds a Client from a service-account credentials file.
func New(ctx context.Context, credentialsPath string, retries int, delay time.Duration, log zerolog.Logger) (*Client, error) {
	svc, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheetsv4.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, retries: retries, delay: delay, log: log}, nil
}

// Read fetches one named sheet as a table, first row as header. Transient
// failures (the desk's TLS proxy drops connections regularly) are retried
// with a fixed delay.
func (c *Client) Read(ctx context.Context, spreadsheetID, sheetName string) (*source.Table, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, sheetName).Context(ctx).Do()
		if err == nil {
			return toTable(sheetName, resp.Values), nil
		}
		lastErr = err
		c.log.Warn().Err(err).Int("attempt", attempt).Str("sheet", sheetName).Msg("sheet fetch failed")
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch sheet %s: %w", sheetName, lastErr)
}

// ReadOrEmpty is Read degraded to an empty table after retries are
// exhausted; downstream stages treat the result as "no data for this
// source".
func (c *Client) ReadOrEmpty(ctx context.Context, spreadsheetID, sheetName string) *source.Table {
	tbl, err := c.Read(ctx, spreadsheetID, sheetName)
	if err != nil {
		c.log.Error().Err(err).Str("sheet", sheetName).Msg("sheet unavailable, proceeding without it")
		return source.NewTable(sheetName, nil)
	}
	return tbl
}

func toTable(name string, values [][]interface{}) *source.Table {
	if len(values) == 0 {
		return source.NewTable(name, nil)
	}
	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = fmt.Sprint(v)
	}
	tbl := source.NewTable(name, header)
	for _, raw := range values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		tbl.AppendRow(row)
	}
	return tbl
}
