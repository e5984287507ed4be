// Package mapstate implements the browser-equivalent filter and
// pagination state machine for the restaurant map: selected category,
// multi-select program set, search keyword and current page, with exactly
// one list fetch per transition and last-request-wins delivery.
package mapstate

import (
	"context"
	"sync"

	"matjip-map/internal/models"

	"go.uber.org/zap"
)

// Query is the composed filter/pagination state a transition sends to the
// list endpoint.
type Query struct {
	Keyword  string
	Category string
	Programs []string
	Page     int
	Limit    int
}

// Fetcher retrieves one restaurant page for a query.
type Fetcher interface {
	FetchRestaurants(ctx context.Context, q Query) (*models.ListResponse[models.Restaurant], error)
}

// Store is the filter state container. Instances are independent, so
// tests (and multiple map views) can each hold their own.
//
// Transition rules:
//   - selecting a category keeps the program set
//   - toggling a program adds it if absent, removes it if present
//   - clearing programs leaves the category untouched
//   - every filter change resets the page to 1
//   - changing the page keeps the filters
//
// Each transition issues one fetch. Fetches may complete out of order; a
// response belonging to a superseded query is discarded, never delivered
// over a newer one. Fetch errors keep the previously delivered result in
// place.
type Store struct {
	mu       sync.Mutex
	keyword  string
	category string
	programs []string
	page     int
	limit    int

	seq       uint64 // latest issued request
	delivered uint64 // latest applied response

	// deliverMu serializes the stale check and the callback so a stale
	// response can never run its callback after a newer one
	deliverMu sync.Mutex

	fetcher  Fetcher
	logr     *zap.Logger
	onResult func(*models.ListResponse[models.Restaurant])
	wg       sync.WaitGroup
}

// New creates a store delivering results through onResult. A nil logger
// silences fetch errors.
func New(fetcher Fetcher, limit int, logr *zap.Logger, onResult func(*models.ListResponse[models.Restaurant])) *Store {
	if limit <= 0 {
		limit = 20
	}
	return &Store{
		page:     1,
		limit:    limit,
		fetcher:  fetcher,
		logr:     logr,
		onResult: onResult,
	}
}

// SetKeyword replaces the search keyword and refetches from page 1.
func (s *Store) SetKeyword(ctx context.Context, keyword string) {
	s.mu.Lock()
	s.keyword = keyword
	s.page = 1
	s.refreshLocked(ctx)
	s.mu.Unlock()
}

// SelectCategory sets the category filter. The program set is kept; the
// server applies both filters conjunctively.
func (s *Store) SelectCategory(ctx context.Context, category string) {
	s.mu.Lock()
	s.category = category
	s.page = 1
	s.refreshLocked(ctx)
	s.mu.Unlock()
}

// ToggleProgram adds the program id if absent and removes it if present.
func (s *Store) ToggleProgram(ctx context.Context, id string) {
	s.mu.Lock()
	found := false
	next := s.programs[:0:0]
	for _, p := range s.programs {
		if p == id {
			found = true
			continue
		}
		next = append(next, p)
	}
	if !found {
		next = append(next, id)
	}
	s.programs = next
	s.page = 1
	s.refreshLocked(ctx)
	s.mu.Unlock()
}

// ClearPrograms empties the program set without touching the category.
func (s *Store) ClearPrograms(ctx context.Context) {
	s.mu.Lock()
	s.programs = nil
	s.page = 1
	s.refreshLocked(ctx)
	s.mu.Unlock()
}

// SetPage moves to another page of the current filter combination.
func (s *Store) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.page = page
	s.refreshLocked(ctx)
	s.mu.Unlock()
}

// Selection returns a snapshot of the current filter state.
func (s *Store) Selection() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryLocked()
}

// Wait blocks until all in-flight fetches have completed. Test helper.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) queryLocked() Query {
	programs := make([]string, len(s.programs))
	copy(programs, s.programs)
	return Query{
		Keyword:  s.keyword,
		Category: s.category,
		Programs: programs,
		Page:     s.page,
		Limit:    s.limit,
	}
}

func (s *Store) refreshLocked(ctx context.Context) {
	s.seq++
	seq := s.seq
	q := s.queryLocked()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res, err := s.fetcher.FetchRestaurants(ctx, q)

		s.deliverMu.Lock()
		defer s.deliverMu.Unlock()

		s.mu.Lock()
		stale := seq < s.seq || seq <= s.delivered
		if !stale && err == nil {
			s.delivered = seq
		}
		s.mu.Unlock()

		if stale {
			return
		}
		if err != nil {
			if s.logr != nil {
				s.logr.Warn("restaurant fetch failed", zap.Error(err))
			}
			return
		}
		if s.onResult != nil {
			s.onResult(res)
		}
	}()
}
