package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, map[string]interface{}{"id": float64(7)}, env.Data)
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "уже существует")

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "уже существует", env.Error)
	assert.Nil(t, env.Data)
}

func TestRespondInternalErrorWithCause(t *testing.T) {
	cause := errors.New("pq: connection refused")

	SetExposeErrors(false)
	rec := httptest.NewRecorder()
	RespondInternalErrorWithCause(rec, cause)
	assert.Equal(t, msgInternalError, decodeEnvelope(t, rec).Error)

	SetExposeErrors(true)
	t.Cleanup(func() { SetExposeErrors(false) })
	rec = httptest.NewRecorder()
	RespondInternalErrorWithCause(rec, cause)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, cause.Error(), decodeEnvelope(t, rec).Error)
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		EventID int64 `json:"eventId"`
	}

	var ok body
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"eventId": 5}`))
	require.NoError(t, DecodeJSON(r, &ok))
	assert.Equal(t, int64(5), ok.EventID)

	var unknown body
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"eventId": 5, "extra": 1}`))
	assert.Error(t, DecodeJSON(r, &unknown))

	var trailing body
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"eventId": 5}{"eventId": 6}`))
	assert.Error(t, DecodeJSON(r, &trailing))
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"eventId": "42"})
	id, err := PathID(r, "eventId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"eventId": raw})
		_, err = PathID(r, "eventId")
		assert.ErrorIs(t, err, ErrInvalidPathParam, raw)
	}
}

func TestDetailMessage(t *testing.T) {
	sentinel := errors.New("events: invalid input data")

	err := fmt.Errorf("%w: title is required; capacity must be at least 1", sentinel)
	assert.Equal(t, "title is required; capacity must be at least 1", DetailMessage(err, sentinel, "fallback"))

	assert.Equal(t, "fallback", DetailMessage(sentinel, sentinel, "fallback"))
}
