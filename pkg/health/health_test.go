package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, fn http.HandlerFunc) (int, statusResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body statusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestLiveHandler(t *testing.T) {
	s := NewService()
	s.AddLiveness("always-ok", time.Second, func(context.Context) error { return nil })

	code, body := probe(t, s.LiveHandler)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)

	s.AddLiveness("broken", time.Second, func(context.Context) error {
		return errors.New("deadlocked")
	})

	code, body = probe(t, s.LiveHandler)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "deadlocked", body.Checks["broken"])
}

func TestReadyHandler_ManualGate(t *testing.T) {
	s := NewService()

	code, body := probe(t, s.ReadyHandler)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Checks, "service")

	s.SetReady(true)
	code, _ = probe(t, s.ReadyHandler)
	assert.Equal(t, http.StatusOK, code)

	s.SetReady(false)
	code, _ = probe(t, s.ReadyHandler)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestReadyHandler_CheckFailure(t *testing.T) {
	s := NewService()
	s.SetReady(true)
	s.AddReadiness("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	code, body := probe(t, s.ReadyHandler)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connection refused", body.Checks["db"])
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestDatabaseCheck(t *testing.T) {
	assert.NoError(t, DatabaseCheck(fakePinger{})(context.Background()))

	err := DatabaseCheck(fakePinger{err: errors.New("down")})(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
}
