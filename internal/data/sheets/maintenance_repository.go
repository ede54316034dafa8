package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agent-dashboard/internal/domain/maintenance"
)

const maintenanceMinFields = 3

// MaintenanceRepository reads the maintenance table
type MaintenanceRepository struct {
	logger  *slog.Logger
	reader  TableReader
	sheetID string
}

var _ maintenance.Repository = (*MaintenanceRepository)(nil)

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(logger *slog.Logger, reader TableReader, sheetID string) *MaintenanceRepository {
	return &MaintenanceRepository{logger: logger, reader: reader, sheetID: sheetID}
}

// ListEntries returns the maintenance rows in table order
func (r *MaintenanceRepository) ListEntries(ctx context.Context) ([]maintenance.Entry, error) {
	rows, err := r.reader.FetchRows(ctx, r.sheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch maintenance table: %w", err)
	}

	var entries []maintenance.Entry
	for _, row := range dataRows(rows) {
		if row.Len() < maintenanceMinFields {
			continue
		}
		entries = append(entries, maintenance.Entry{
			Scope:   row.Field(0),
			Enabled: strings.EqualFold(row.Field(1), "on"),
			Notice:  row.Field(2),
		})
	}
	return entries, nil
}
