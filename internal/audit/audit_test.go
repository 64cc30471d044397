package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/audit"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, audit.Event) error {
	f.calls++
	return errors.New("broker down")
}

func TestEmit(t *testing.T) {
	rec := &audit.Recorder{}
	id := uuid.New()

	audit.Emit(context.Background(), rec, audit.Event{Kind: audit.LoanCreated, EntityID: id})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].EntityID)
	assert.False(t, events[0].At.IsZero())
	assert.Equal(t, []audit.Kind{audit.LoanCreated}, rec.Kinds())
}

func TestEmit_SwallowsFailures(t *testing.T) {
	p := &failingPublisher{}

	assert.NotPanics(t, func() {
		audit.Emit(context.Background(), p, audit.Event{Kind: audit.TransactionCreated})
		audit.Emit(context.Background(), nil, audit.Event{Kind: audit.TransactionCreated})
	})
	assert.Equal(t, 1, p.calls)
}

func TestEvent_JSON(t *testing.T) {
	e := audit.Event{
		Kind:       audit.TransactionCreated,
		EntityID:   uuid.New(),
		AccountIDs: []uuid.UUID{uuid.New(), uuid.New()},
		Amount:     "200.00",
		At:         time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := e.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"transaction.created"`)

	back, err := audit.EventFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, e, back)
}
