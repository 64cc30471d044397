// Package request decodes path, query and body input. Every failure is an errs.ValidationError so
// handlers can pass it straight to respond.Error.
package request

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Invalid("body", err.Error())
	}

	return nil
}

// PathID parses the chi URL parameter name as a UUID.
func PathID(r *http.Request, name string) (uuid.UUID, error) {
	return ParseID(name, chi.URLParam(r, name))
}

func ParseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errs.Invalid(field, "not a valid id")
	}

	return id, nil
}

// OptionalID parses s when it is set.
func OptionalID(field string, s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	id, err := ParseID(field, *s)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

// NullableID is a PATCH field that tells an absent key apart from an explicit null.
type NullableID struct {
	Set   bool
	Value *string
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	n.Value = nil

	if string(b) == "null" {
		return nil
	}

	return json.Unmarshal(b, &n.Value)
}

// Parse reports whether the field was sent. A sent null or empty string yields a nil id, which
// callers treat as clearing the field.
func (n NullableID) Parse(field string) (*uuid.UUID, bool, error) {
	if !n.Set {
		return nil, false, nil
	}

	id, err := OptionalID(field, n.Value)
	if err != nil {
		return nil, false, err
	}

	return id, true, nil
}

func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errs.Invalid(field, "expected YYYY-MM-DD")
	}

	return t, nil
}

func OptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	t, err := ParseDate(field, *s)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func OptionalAmount(field string, s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}

	d, err := money.ParseAmount(field, *s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// QueryID reads an optional UUID query parameter.
func QueryID(r *http.Request, key string) (*uuid.UUID, error) {
	return OptionalID(key, new(r.URL.Query().Get(key)))
}

// QueryDate reads an optional YYYY-MM-DD query parameter.
func QueryDate(r *http.Request, key string) (*time.Time, error) {
	return OptionalDate(key, new(r.URL.Query().Get(key)))
}
