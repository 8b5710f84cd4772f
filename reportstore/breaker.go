package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/truespec/truespec/tserrors"
)

const (
	// breakerFailureThreshold is the consecutive-failure count that opens the circuit.
	breakerFailureThreshold = 5

	// breakerTimeout is how long the circuit stays open before probing again.
	breakerTimeout = 30 * time.Second

	// breakerInterval is the cyclic period for clearing failure counts while closed.
	breakerInterval = 60 * time.Second
)

// breakerStore wraps a Store with a circuit breaker so a struggling table
// service sheds load quickly instead of holding every request until its
// timeout. An open circuit surfaces as store-unavailable.
type breakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps store with a named circuit breaker. The optional
// onStateChange callback observes transitions for logging or metrics.
func WithBreaker(store Store, name string, onStateChange func(name string, from, to gobreaker.State)) Store {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: breakerInterval,
		Timeout:  breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: onStateChange,
	})
	return &breakerStore{inner: store, cb: cb}
}

// Put implements Store.
func (s *breakerStore) Put(ctx context.Context, e Entity) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.inner.Put(ctx, e)
	})
	return s.mapErr(err)
}

// ListPage implements Store.
func (s *breakerStore) ListPage(ctx context.Context, partitionKey string, pageSize int32, token *PageToken) (Page, error) {
	result, err := s.cb.Execute(func() (any, error) {
		return s.inner.ListPage(ctx, partitionKey, pageSize, token)
	})
	if err != nil {
		return Page{}, s.mapErr(err)
	}
	return result.(Page), nil
}

// GetByID implements Store.
func (s *breakerStore) GetByID(ctx context.Context, rowKey string) (*Entity, error) {
	result, err := s.cb.Execute(func() (any, error) {
		return s.inner.GetByID(ctx, rowKey)
	})
	if err != nil {
		return nil, s.mapErr(err)
	}
	return result.(*Entity), nil
}

// mapErr converts breaker-rejected calls into store-unavailable errors and
// passes inner store errors through unchanged.
func (s *breakerStore) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &tserrors.StoreError{Op: "call", Message: "circuit open", Cause: err}
	}
	return err
}
