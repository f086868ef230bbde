package ledger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ZdruzenieSTROM/faktury/internal/model"
	"github.com/ZdruzenieSTROM/faktury/internal/remote"
)

// DefaultWorkers bounds parallel detail fetches
const DefaultWorkers = 4

// Source lists issued invoices and their details
type Source interface {
	ListInvoices(ctx context.Context, from, to string) ([]remote.Summary, error)
	InvoiceDetail(ctx context.Context, code string) (*remote.Detail, error)
}

// Collect lists the invoices issued between from and to and enriches each
// with its detail. Details are fetched in parallel; the result keeps the
// listing order.
func Collect(ctx context.Context, src Source, from, to string, workers int) ([]model.LedgerEntry, error) {
	invoices, err := src.ListInvoices(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	entries := make([]model.LedgerEntry, len(invoices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, inv := range invoices {
		g.Go(func() error {
			detail, err := src.InvoiceDetail(ctx, inv.Code.String())
			if err != nil {
				return fmt.Errorf("invoice %s: %w", inv.Number, err)
			}
			entry, err := EntryFromListing(inv, *detail)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
