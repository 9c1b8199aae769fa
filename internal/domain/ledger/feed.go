package ledger

import (
	"context"
	"sync"
)

// Feed is a change-notification hub. Mutating service operations call
// Notify after a successful commit; subscribers receive a coalesced signal
// and re-query for a fresh snapshot. Signals carry no payload, so a slow
// subscriber sees at most one pending wakeup, never a backlog.
type Feed struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan struct{})}
}

func (f *Feed) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a wakeup channel. The returned release function must
// be called when the subscription is no longer needed; calling it more than
// once is safe.
func (f *Feed) Subscribe() (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	ch := make(chan struct{}, 1)
	f.subs[id] = ch

	var once sync.Once
	release := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
	return ch, release
}

// WatchSnapshots turns a feed plus a query into a live subscription: the
// channel delivers the full current result set immediately and again after
// every change, until the context ends or the release function runs. A
// failed refresh keeps the previous snapshot; the next change retries. If
// the subscriber has not consumed the previous snapshot yet it is replaced
// rather than queued.
func WatchSnapshots[T any](ctx context.Context, feed *Feed, query func(context.Context) ([]T, error)) (<-chan []T, func(), error) {
	signal, unsubscribe := feed.Subscribe()

	initial, err := query(ctx)
	if err != nil {
		unsubscribe()
		return nil, nil, err
	}

	out := make(chan []T, 1)
	out <- initial

	done := make(chan struct{})
	var once sync.Once
	release := func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				release()
				return
			case <-done:
				return
			case <-signal:
				items, err := query(ctx)
				if err != nil {
					continue
				}
				select {
				case <-out:
				default:
				}
				select {
				case out <- items:
				default:
				}
			}
		}
	}()

	return out, release, nil
}

// WatchTransactions subscribes to the filtered transaction list.
func (s *Service) WatchTransactions(ctx context.Context, userID string, filter ListFilter) (<-chan []Transaction, func(), error) {
	return WatchSnapshots(ctx, s.feed, func(ctx context.Context) ([]Transaction, error) {
		return s.repo.ListTransactions(ctx, userID, filter)
	})
}

func (s *Service) WatchDebts(ctx context.Context, userID string) (<-chan []Debt, func(), error) {
	return WatchSnapshots(ctx, s.feed, func(ctx context.Context) ([]Debt, error) {
		return s.repo.ListDebts(ctx, userID)
	})
}

func (s *Service) WatchGoals(ctx context.Context, userID string) (<-chan []Goal, func(), error) {
	return WatchSnapshots(ctx, s.feed, func(ctx context.Context) ([]Goal, error) {
		return s.repo.ListGoals(ctx, userID)
	})
}
