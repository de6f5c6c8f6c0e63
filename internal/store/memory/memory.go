// Package memory is a mutex-guarded in-process record backend, used by
// tests and credential-free runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"xpense/internal/core"
	"xpense/internal/report"
	"xpense/internal/store"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Record
	loc    *time.Location
}

var _ store.RecordSource = (*Store)(nil)

func New(loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{loc: loc}
}

func (s *Store) Insert(_ context.Context, r core.Record) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.items = append(s.items, r)
	return r.ID, nil
}

func (s *Store) QueryRange(_ context.Context, start, end time.Time) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.inRangeLocked(start, end)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *Store) QueryDuplicate(_ context.Context, title string, amount core.Money, start, end time.Time) (*core.Record, error) {
	wanted := strings.TrimSpace(title)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.inRangeLocked(start, end) {
		if strings.EqualFold(strings.TrimSpace(r.Title), wanted) && r.Amount == amount {
			match := r
			return &match, nil
		}
	}
	return nil, nil
}

func (s *Store) SumRange(_ context.Context, start, end time.Time) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum core.Money
	for _, r := range s.inRangeLocked(start, end) {
		sum = sum.Add(r.Amount)
	}
	return sum, nil
}

func (s *Store) DailyTotals(_ context.Context, start, end time.Time) ([]core.DailyTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.GroupDaily(s.inRangeLocked(start, end), s.loc), nil
}

func (s *Store) CategoryTotals(_ context.Context, start, end time.Time) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// inRangeLocked preserves insertion order, which is what keeps ties
	// stable in the grouped output.
	return report.GroupCategories(s.inRangeLocked(start, end)), nil
}

func (s *Store) inRangeLocked(start, end time.Time) []core.Record {
	out := make([]core.Record, 0, len(s.items))
	for _, r := range s.items {
		if !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			out = append(out, r)
		}
	}
	return out
}
