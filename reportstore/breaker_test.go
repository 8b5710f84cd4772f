package reportstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truespec/truespec/tserrors"
)

// failingStore always fails, for exercising the breaker.
type failingStore struct {
	calls int
}

func (s *failingStore) Put(context.Context, Entity) error {
	s.calls++
	return &tserrors.StoreError{Op: "put", Message: "boom"}
}

func (s *failingStore) ListPage(context.Context, string, int32, *PageToken) (Page, error) {
	s.calls++
	return Page{}, &tserrors.StoreError{Op: "list", Message: "boom"}
}

func (s *failingStore) GetByID(context.Context, string) (*Entity, error) {
	s.calls++
	return nil, &tserrors.StoreError{Op: "get", Message: "boom"}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	ctx := context.Background()
	store := WithBreaker(NewMemoryStore(), "test", nil)

	require.NoError(t, store.Put(ctx, entity("p", "r")))

	got, err := store.GetByID(ctx, "r")
	require.NoError(t, err)
	require.NotNil(t, got)

	page, err := store.ListPage(ctx, "p", 10, nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	inner := &failingStore{}
	store := WithBreaker(inner, "test", nil)

	for range breakerFailureThreshold {
		err := store.Put(ctx, entity("p", "r"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, tserrors.ErrStoreUnavailable))
	}

	// The circuit is now open: the inner store is no longer called.
	callsBefore := inner.calls
	err := store.Put(ctx, entity("p", "r"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tserrors.ErrStoreUnavailable))
	assert.Equal(t, callsBefore, inner.calls)
}

func TestBreakerStateChangeCallback(t *testing.T) {
	ctx := context.Background()
	var transitions []gobreaker.State
	store := WithBreaker(&failingStore{}, "test", func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	})

	for range breakerFailureThreshold {
		_ = store.Put(ctx, entity("p", "r"))
	}

	require.NotEmpty(t, transitions)
	assert.Equal(t, gobreaker.StateOpen, transitions[len(transitions)-1])
}

func TestBreakerGetByIDNilResult(t *testing.T) {
	store := WithBreaker(NewMemoryStore(), "test", nil)
	got, err := store.GetByID(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}
