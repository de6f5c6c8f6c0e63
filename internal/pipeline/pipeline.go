// Package pipeline recomputes the filtered record view whenever either
// filter dimension changes: the date range reloads the base set from the
// backend, the category refilters the held base set. Every change
// re-derives the full output from the two latest inputs; there is no
// incremental update.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"xpense/internal/core"
	"xpense/internal/store"
)

// Snapshot is the derived output: the filtered records plus their count
// and summed amount, always consistent with the latest range and category.
type Snapshot struct {
	Records     []core.Record
	TotalCount  int
	TotalAmount core.Money
}

// Pipeline holds the two filter inputs and the latest base record set for
// the current range. All mutations come from one logical UI session; the
// mutex only guards against subscriber reads racing a setter.
type Pipeline struct {
	querier store.RecordQuerier

	mu       sync.Mutex
	start    time.Time
	end      time.Time
	category string
	base     []core.Record
	current  Snapshot
	subs     []func(Snapshot)
}

// New builds a pipeline over querier with an empty base set. Callers
// seed it with SetRange; the conventional default is the current local day.
func New(querier store.RecordQuerier) *Pipeline {
	return &Pipeline{querier: querier}
}

// Subscribe registers fn to receive every recomputed snapshot.
func (p *Pipeline) Subscribe(fn func(Snapshot)) {
	p.mu.Lock()
	p.subs = append(p.subs, fn)
	p.mu.Unlock()
}

// SetRange replaces the date range, reloads the base record set from the
// backend and recomputes the derived output. On a load failure the base
// set is cleared so consumers see the empty "no data" state, never stale
// records from the previous range.
func (p *Pipeline) SetRange(ctx context.Context, start, end time.Time) error {
	records, err := p.querier.QueryRange(ctx, start, end)

	p.mu.Lock()
	p.start, p.end = start, end
	if err != nil {
		p.base = nil
	} else {
		p.base = records
	}
	snap, subs := p.recomputeLocked()
	p.mu.Unlock()

	notify(subs, snap)
	if err != nil {
		return fmt.Errorf("load range: %w", err)
	}
	return nil
}

// SetCategory replaces the category selector and refilters the held base
// set. The base set is not reloaded; only the derivation reruns.
func (p *Pipeline) SetCategory(category string) {
	p.mu.Lock()
	p.category = category
	snap, subs := p.recomputeLocked()
	p.mu.Unlock()

	notify(subs, snap)
}

// Current returns the latest derived snapshot.
func (p *Pipeline) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Range returns the active date range.
func (p *Pipeline) Range() (time.Time, time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.start, p.end
}

func (p *Pipeline) recomputeLocked() (Snapshot, []func(Snapshot)) {
	filtered := FilterByCategory(p.base, p.category)
	snap := Snapshot{
		Records:    filtered,
		TotalCount: len(filtered),
	}
	for _, r := range filtered {
		snap.TotalAmount = snap.TotalAmount.Add(r.Amount)
	}
	p.current = snap
	subs := make([]func(Snapshot), len(p.subs))
	copy(subs, p.subs)
	return snap, subs
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

// FilterByCategory returns the records whose category matches the
// selector, comparing case-insensitively after trimming whitespace. A
// blank selector matches everything.
func FilterByCategory(records []core.Record, category string) []core.Record {
	wanted := strings.TrimSpace(category)
	if wanted == "" {
		out := make([]core.Record, len(records))
		copy(out, records)
		return out
	}
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.Category), wanted) {
			out = append(out, r)
		}
	}
	return out
}
