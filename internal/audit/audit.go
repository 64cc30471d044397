// Package audit carries ledger and loan events to an external sink.
//
// Publishing happens after the originating operation committed; a sink failure is logged and
// never undoes or fails the operation.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	TransactionCreated Kind = "transaction.created"
	TransactionUpdated Kind = "transaction.updated"
	TransactionDeleted Kind = "transaction.deleted"
	LoanCreated        Kind = "loan.created"
	LoanClosed         Kind = "loan.closed"
	LoanDefaulted      Kind = "loan.defaulted"
	LoanDeleted        Kind = "loan.deleted"
	InstallmentPaid    Kind = "installment.paid"
)

type Event struct {
	Kind       Kind        `json:"kind"`
	EntityID   uuid.UUID   `json:"entity_id"`
	AccountIDs []uuid.UUID `json:"account_ids,omitempty"`
	Amount     string      `json:"amount,omitempty"`
	At         time.Time   `json:"at"`
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)

	return e, err
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Emit publishes e and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}

	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	if err := p.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "failed to publish audit event",
			"kind", e.Kind,
			"entity_id", e.EntityID,
			"error", err)
	}
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)

	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events in publish order.
func (r *Recorder) Kinds() []Kind {
	events := r.Events()

	kinds := make([]Kind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}

	return kinds
}
