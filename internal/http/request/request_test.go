package request_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/http/request"
)

func TestDecode(t *testing.T) {
	var body struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"wallet"}`))
	require.NoError(t, request.Decode(r, &body))
	assert.Equal(t, "wallet", body.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	require.ErrorIs(t, request.Decode(r, &body), errs.ErrValidation)
}

func TestQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/?account_id=0b9a2f4e-2f7e-4f6b-9d0e-1c2d3e4f5a6b&start_date=2025-02-01&bad_date=01/02/2025&bad_id=42", nil)

	id, err := request.QueryID(r, "account_id")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "0b9a2f4e-2f7e-4f6b-9d0e-1c2d3e4f5a6b", id.String())

	missing, err := request.QueryID(r, "category_id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	start, err := request.QueryDate(r, "start_date")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *start)

	_, err = request.QueryDate(r, "bad_date")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = request.QueryID(r, "bad_id")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestOptionalAmount(t *testing.T) {
	got, err := request.OptionalAmount("amount", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = request.OptionalAmount("amount", new("12.50"))
	require.NoError(t, err)
	assert.Equal(t, "12.5", got.String())

	_, err = request.OptionalAmount("amount", new("twelve"))
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestNullableID(t *testing.T) {
	const id = "0b9a2f4e-2f7e-4f6b-9d0e-1c2d3e4f5a6b"

	tests := []struct {
		name    string
		body    string
		wantSet bool
		wantID  string
		wantErr error
	}{
		{name: "Absent", body: `{}`},
		{name: "Null", body: `{"category_id":null}`, wantSet: true},
		{name: "Empty", body: `{"category_id":""}`, wantSet: true},
		{name: "Value", body: `{"category_id":"` + id + `"}`, wantSet: true, wantID: id},
		{name: "NotAnID", body: `{"category_id":"42"}`, wantErr: errs.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body struct {
				CategoryID request.NullableID `json:"category_id"`
			}

			r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tc.body))
			require.NoError(t, request.Decode(r, &body))

			got, set, err := body.CategoryID.Parse("category_id")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantSet, set)

			if tc.wantID == "" {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tc.wantID, got.String())
		})
	}

	var body struct {
		CategoryID request.NullableID `json:"category_id"`
	}

	r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"category_id":7}`))
	require.ErrorIs(t, request.Decode(r, &body), errs.ErrValidation)
}
