// Package sheets fetches the published CSV export of the read-only spreadsheet tables.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/agent-dashboard/internal/config"
	"github.com/agent-dashboard/internal/platform/tabular"
	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatus indicates the export endpoint answered with a non-2xx status
type ErrUnexpectedStatus struct {
	SheetID    string
	StatusCode int
}

func (e ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("sheet %s export responded with status %d", e.SheetID, e.StatusCode)
}

// Client downloads sheet exports over HTTP GET. Requests are never retried.
type Client struct {
	logger  *slog.Logger
	http    *resty.Client
	baseURL string
}

// NewClient creates a sheets client from configuration
func NewClient(logger *slog.Logger, cfg *config.SheetsConfig) *Client {
	return NewClientWithHTTP(logger, cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP creates a sheets client on top of the given transport
func NewClientWithHTTP(logger *slog.Logger, baseURL string, httpClient *http.Client) *Client {
	return &Client{
		logger:  logger,
		http:    resty.NewWithClient(httpClient).SetRetryCount(0),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ExportURL returns the CSV export address of a sheet
func (c *Client) ExportURL(sheetID string) string {
	return fmt.Sprintf("%s/%s/gviz/tq?tqx=out:csv", c.baseURL, url.PathEscape(sheetID))
}

// FetchText downloads the raw CSV text of a sheet
func (c *Client) FetchText(ctx context.Context, sheetID string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv").
		Get(c.ExportURL(sheetID))
	if err != nil {
		return "", fmt.Errorf("failed to fetch sheet %s: %w", sheetID, err)
	}

	if !resp.IsSuccess() {
		return "", ErrUnexpectedStatus{SheetID: sheetID, StatusCode: resp.StatusCode()}
	}

	body := string(resp.Body())
	c.logger.Debug("Fetched sheet export", "sheet_id", sheetID, "bytes", len(body), "duration", resp.Time().String())
	return body, nil
}

// FetchRows downloads a sheet and decodes it with the positional parser
func (c *Client) FetchRows(ctx context.Context, sheetID string) ([]tabular.Row, error) {
	text, err := c.FetchText(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	return tabular.Parse(text), nil
}

// FetchTrimmedRows downloads a sheet and decodes it with the header-discovered parser
func (c *Client) FetchTrimmedRows(ctx context.Context, sheetID string) ([]tabular.Row, error) {
	text, err := c.FetchText(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	return tabular.ParseTrimmed(text), nil
}
