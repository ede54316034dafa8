package reconciliation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/platform/tabular"
	"golang.org/x/sync/errgroup"
)

// Loader derives views from the read source. Every call re-fetches, nothing is cached.
type Loader struct {
	logger *slog.Logger
	source transaction.RowSource
}

func NewLoader(logger *slog.Logger, source transaction.RowSource) *Loader {
	return &Loader{logger: logger, source: source}
}

// LoadClass builds the view of a single table for viewer
func (l *Loader) LoadClass(ctx context.Context, class shared.TransactionClass, viewer string) (*View, error) {
	rows, err := l.source.FetchTransactionRows(ctx, class)
	if err != nil {
		return nil, err
	}

	view := NewView(viewer, ClassifyAll(rows, class, viewer))
	l.logger.Debug("Loaded transaction view",
		"class", class,
		"username", viewer,
		"rows", len(rows),
		"visible", view.Len(),
	)
	return view, nil
}

// LoadMerged fetches both tables concurrently and reconciles them for viewer
func (l *Loader) LoadMerged(ctx context.Context, viewer string) (*View, error) {
	var depositRows, withdrawalRows []tabular.Row

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := l.source.FetchTransactionRows(gctx, shared.TransactionClassDeposit)
		depositRows = rows
		return err
	})
	g.Go(func() error {
		rows, err := l.source.FetchTransactionRows(gctx, shared.TransactionClassWithdrawal)
		withdrawalRows = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	view := Reconcile(depositRows, withdrawalRows, viewer)
	l.logger.Debug("Loaded merged transaction view",
		"username", viewer,
		"deposit_rows", len(depositRows),
		"withdrawal_rows", len(withdrawalRows),
		"visible", view.Len(),
	)
	return view, nil
}
