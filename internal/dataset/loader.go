// Package dataset loads the sheets behind a page, fetching them in parallel and
// keeping a short-lived copy so repeated page views do not refetch.
package dataset

import (
	"context"
	"sync"
	"time"

	"pspicdash/domain/sheet"
	"pspicdash/internal"
	"pspicdash/internal/errors"
	"pspicdash/ports"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var logger = internal.DefaultLogger.Component("Dataset")

type cacheEntry struct {
	table     *sheet.Table
	fetchedAt time.Time
}

// Loader fetches sheets through a SheetSource with a TTL cache. A TTL of zero
// disables caching; concurrent requests for the same sheet still share one fetch.
type Loader struct {
	source ports.SheetSource
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group

	now func() time.Time
}

// NewLoader creates a loader over source
func NewLoader(source ports.SheetSource, ttl time.Duration) *Loader {
	return &Loader{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func cacheKey(ref sheet.Ref) string {
	return ref.SpreadsheetID + "#" + ref.GID
}

// Fetch returns one sheet, from cache when still fresh. A fetch already in
// flight for the same sheet is joined rather than repeated. The shared fetch
// is detached from the caller's cancellation, so a caller that gives up only
// stops waiting; the source's own timeout still bounds the download.
func (l *Loader) Fetch(ctx context.Context, ref sheet.Ref) (*sheet.Table, error) {
	key := cacheKey(ref)
	if table, ok := l.cached(key); ok {
		return table, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		if table, ok := l.cached(key); ok {
			return table, nil
		}
		table, err := l.source.Fetch(detached, ref)
		if err != nil {
			return nil, err
		}
		if l.ttl > 0 {
			l.mu.Lock()
			l.entries[key] = cacheEntry{table: table, fetchedAt: l.now()}
			l.mu.Unlock()
		}
		return table, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.SheetFetch("No se pudo cargar la hoja "+ref.Key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			logger.Warn("fetch %s failed: %v", ref, res.Err)
			if !errors.IsSheetFailure(res.Err) {
				return nil, errors.SheetFetch("No se pudo cargar la hoja "+ref.Key, res.Err)
			}
			return nil, errors.Wrapf(res.Err, "failed to load sheet %s", ref.Key)
		}
		if res.Shared {
			logger.Debug("%s served from a shared fetch", ref.Key)
		}
		return res.Val.(*sheet.Table), nil
	}
}

func (l *Loader) cached(key string) (*sheet.Table, bool) {
	if l.ttl <= 0 {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, ok := l.entries[key]
	if !ok || l.now().Sub(entry.fetchedAt) >= l.ttl {
		return nil, false
	}
	return entry.table, true
}

// Load fetches all refs in parallel and returns them by sheet key. The first
// failure cancels the remaining fetches and is returned.
func (l *Loader) Load(ctx context.Context, refs ...sheet.Ref) (map[string]*sheet.Table, error) {
	tables := make([]*sheet.Table, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			table, err := l.Fetch(gctx, ref)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*sheet.Table, len(refs))
	for i, ref := range refs {
		out[ref.Key] = tables[i]
	}
	return out, nil
}

// Invalidate drops the cached copy of ref
func (l *Loader) Invalidate(ref sheet.Ref) {
	l.mu.Lock()
	delete(l.entries, cacheKey(ref))
	l.mu.Unlock()
}

// Purge drops every cached sheet
func (l *Loader) Purge() {
	l.mu.Lock()
	l.entries = make(map[string]cacheEntry)
	l.mu.Unlock()
}
