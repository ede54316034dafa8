// Package sheetdb writes partial updates to the record store that backs the
// transaction spreadsheets. Rows are addressed by their "Transaction Number" column.
package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/agent-dashboard/internal/config"
	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/go-resty/resty/v2"
)

const (
	keyColumnPath   = "Transaction%20Number"
	columnStatus    = "Status"
	columnReference = "TRX ID"
	columnReason    = "Reason"
)

// Client implements transaction.Store against the SheetDB REST API.
// Writes are never retried.
type Client struct {
	logger          *slog.Logger
	http            *resty.Client
	baseURL         string
	depositStore    string
	withdrawalStore string
}

var _ transaction.Store = (*Client)(nil)

// NewClient creates a record-store client from configuration
func NewClient(logger *slog.Logger, cfg *config.SheetDBConfig) *Client {
	return NewClientWithHTTP(logger, cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP creates a record-store client on top of the given transport
func NewClientWithHTTP(logger *slog.Logger, cfg *config.SheetDBConfig, httpClient *http.Client) *Client {
	return &Client{
		logger: logger,
		http: resty.NewWithClient(httpClient).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		depositStore:    cfg.DepositStore,
		withdrawalStore: cfg.WithdrawalStore,
	}
}

type patchRequest struct {
	Data map[string]string `json:"data"`
}

type patchResponse struct {
	Updated *int        `json:"updated"`
	Error   interface{} `json:"error"`
}

// UpdateStatus sets the Status column, attaching TRX ID in the same request when given
func (c *Client) UpdateStatus(ctx context.Context, class shared.TransactionClass, number string, status shared.TransactionStatus, referenceID string) error {
	value := status.SheetValue()
	if value == "" {
		return fmt.Errorf("cannot write status %q", status)
	}

	data := map[string]string{columnStatus: value}
	if referenceID != "" {
		data[columnReference] = referenceID
	}

	store, err := c.storeFor(class)
	if err != nil {
		return err
	}
	return c.patch(ctx, store, transaction.WriteFieldStatus, number, data)
}

// UpdateReason sets the Reason column of a deposit row
func (c *Client) UpdateReason(ctx context.Context, number string, reason string) error {
	return c.patch(ctx, c.depositStore, transaction.WriteFieldReason, number, map[string]string{columnReason: reason})
}

// RecordURL returns the address of the row keyed by number in store
func (c *Client) RecordURL(store, number string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, url.PathEscape(store), keyColumnPath, url.PathEscape(number))
}

func (c *Client) storeFor(class shared.TransactionClass) (string, error) {
	switch class {
	case shared.TransactionClassDeposit:
		return c.depositStore, nil
	case shared.TransactionClassWithdrawal:
		return c.withdrawalStore, nil
	}
	return "", shared.ErrInvalidTransactionClass
}

func (c *Client) patch(ctx context.Context, store string, field transaction.WriteField, number string, data map[string]string) error {
	if number == "" {
		return transaction.ErrWriteFailure{Field: field, Number: number, Message: "missing transaction number"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(patchRequest{Data: data}).
		Patch(c.RecordURL(store, number))
	if err != nil {
		c.logger.Error("Record store request failed", "field", field, "transaction_number", number, "error", err)
		return transaction.ErrWriteFailure{Field: field, Number: number, Err: err}
	}

	raw := resp.Body()
	c.logger.Debug("Record store responded",
		"field", field,
		"transaction_number", number,
		"status_code", resp.StatusCode(),
		"duration", resp.Time().String(),
		"body", string(raw),
	)

	if !resp.IsSuccess() {
		return transaction.ErrWriteFailure{
			Field:   field,
			Number:  number,
			Message: fmt.Sprintf("SheetDB API responded with status: %d, text: %s", resp.StatusCode(), strings.TrimSpace(string(raw))),
		}
	}

	return interpret(field, number, raw)
}

// interpret applies the API-level outcome rules to a 2xx response body
func interpret(field transaction.WriteField, number string, raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var result patchResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return transaction.ErrWriteFailure{
			Field:   field,
			Number:  number,
			Message: "Error parsing SheetDB response: " + err.Error(),
			Err:     err,
		}
	}

	if msg := errorText(result.Error); msg != "" {
		return transaction.ErrWriteFailure{Field: field, Number: number, Message: "SheetDB API error: " + msg}
	}

	if result.Updated != nil && *result.Updated == 0 {
		return transaction.ErrNoRecordsUpdated{Field: field, Number: number}
	}

	return nil
}

func errorText(v interface{}) string {
	switch e := v.(type) {
	case nil:
		return ""
	case string:
		return e
	case bool:
		if e {
			return "true"
		}
		return ""
	case float64:
		if e == 0 {
			return ""
		}
		return fmt.Sprint(e)
	default:
		encoded, err := json.Marshal(e)
		if err != nil {
			return fmt.Sprint(e)
		}
		return string(encoded)
	}
}
