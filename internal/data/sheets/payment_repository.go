package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agent-dashboard/internal/domain/payment"
	"github.com/agent-dashboard/internal/platform/tabular"
)

// Column headers are matched by substring; "Amound" is the source spelling
const (
	headerUsername  = "Username"
	headerStatus    = "Status"
	headerMethod    = "Method"
	headerAmount    = "Amound"
	headerAddress   = "USDT (Address)"
	headerQRLogo    = "QR Logo"
	headerAgentType = "Agent Type"
)

// PaymentRepository reads the security payment table. Columns are discovered
// from the header row rather than fixed positions.
type PaymentRepository struct {
	logger  *slog.Logger
	reader  TableReader
	sheetID string
}

var _ payment.Repository = (*PaymentRepository)(nil)

// NewPaymentRepository creates a new security payment repository
func NewPaymentRepository(logger *slog.Logger, reader TableReader, sheetID string) *PaymentRepository {
	return &PaymentRepository{logger: logger, reader: reader, sheetID: sheetID}
}

type paymentColumns struct {
	username, status, method, amount, address, qrLogo, agentType int
}

// ListPayments returns every data row below the header. A table without
// Username and Status columns yields no rows.
func (r *PaymentRepository) ListPayments(ctx context.Context) ([]*payment.SecurityPayment, error) {
	rows, err := r.reader.FetchTrimmedRows(ctx, r.sheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch security payment table: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headerIndex := findHeaderRow(rows)
	headers := rows[headerIndex]
	cols := paymentColumns{
		username:  columnIndex(headers, headerUsername),
		status:    columnIndex(headers, headerStatus),
		method:    columnIndex(headers, headerMethod),
		amount:    columnIndex(headers, headerAmount),
		address:   columnIndex(headers, headerAddress),
		qrLogo:    columnIndex(headers, headerQRLogo),
		agentType: columnIndex(headers, headerAgentType),
	}
	if cols.username < 0 || cols.status < 0 {
		r.logger.Warn("Security payment table has no Username or Status column", "sheet_id", r.sheetID)
		return nil, nil
	}

	minLen := max(cols.username, cols.status) + 1
	var payments []*payment.SecurityPayment
	for _, row := range rows[headerIndex+1:] {
		if row.Len() < minLen {
			continue
		}
		payments = append(payments, &payment.SecurityPayment{
			Username:  row.Field(cols.username),
			Status:    row.Field(cols.status),
			Method:    row.Field(cols.method),
			Amount:    row.Field(cols.amount),
			Address:   row.Field(cols.address),
			QRLogo:    row.Field(cols.qrLogo),
			AgentType: row.Field(cols.agentType),
		})
	}
	return payments, nil
}

// findHeaderRow returns the first row with a Username cell, or 0
func findHeaderRow(rows []tabular.Row) int {
	for i, row := range rows {
		if columnIndex(row, headerUsername) >= 0 {
			return i
		}
	}
	return 0
}

func columnIndex(headers tabular.Row, name string) int {
	for i, h := range headers {
		if strings.Contains(h, name) {
			return i
		}
	}
	return -1
}
