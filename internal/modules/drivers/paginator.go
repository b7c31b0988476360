// README: Driver directory pagination; dedup against already-contacted drivers and a per-trip cap.
package drivers

import (
	"context"

	"cabbot/internal/types"
)

// Directory is the slice of the driver directory API the paginator needs.
type Directory interface {
	SearchDrivers(ctx context.Context, city string, page, limit int, filters map[string]string) ([]types.ID, error)
}

// Paginator walks the directory one page at a time, remembering nothing
// itself; the caller supplies cursor and contacted-set from session state and
// persists what comes back.
type Paginator struct {
	dir        Directory
	pageSize   int
	maxPerTrip int
}

func NewPaginator(dir Directory, pageSize, maxPerTrip int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	if maxPerTrip <= 0 {
		maxPerTrip = 60
	}
	return &Paginator{dir: dir, pageSize: pageSize, maxPerTrip: maxPerTrip}
}

// Query is one batch request. Cursor is the 1-based page to fetch; Notified
// holds every driver contacted for the current trip so far.
type Query struct {
	City     string
	Filters  map[string]string
	Cursor   int
	Notified map[types.ID]bool
}

// Batch is the outcome of one page fetch. Cursor is the page the NEXT call
// should fetch; it advances only when the page yielded at least one
// previously-unseen driver.
type Batch struct {
	DriverIDs []types.ID
	Cursor    int
	Exhausted bool
}

// NextBatch fetches one directory page and filters out drivers already
// contacted. Exhausted is set on a short page (the directory is drained for
// this filter set) or once the per-trip contact cap is reached.
func (p *Paginator) NextBatch(ctx context.Context, q Query) (Batch, error) {
	cursor := q.Cursor
	if cursor < 1 {
		cursor = 1
	}
	if len(q.Notified) >= p.maxPerTrip {
		return Batch{Cursor: cursor, Exhausted: true}, nil
	}

	page, err := p.dir.SearchDrivers(ctx, q.City, cursor, p.pageSize, q.Filters)
	if err != nil {
		return Batch{}, err
	}

	fresh := make([]types.ID, 0, len(page))
	for _, id := range page {
		if q.Notified[id] {
			continue
		}
		fresh = append(fresh, id)
	}

	capped := false
	if room := p.maxPerTrip - len(q.Notified); len(fresh) > room {
		fresh = fresh[:room]
		capped = true
	}

	next := cursor
	if len(fresh) > 0 {
		next = cursor + 1
	}
	return Batch{
		DriverIDs: fresh,
		Cursor:    next,
		Exhausted: len(page) < p.pageSize || capped,
	}, nil
}
