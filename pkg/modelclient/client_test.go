package modelclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zestai/zrp/internal/proxy"
	"github.com/zestai/zrp/internal/resilience"
)

func fastRetry(attempts int) resilience.Policy {
	return resilience.Policy{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

// echoServer scores every row with a fixed distribution and counts requests.
func echoServer(t *testing.T, hits *int32, sizes *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if sizes != nil {
			*sizes = append(*sizes, len(req.Rows))
		}

		resp := Response{}
		for _, row := range req.Rows {
			resp.Predictions = append(resp.Predictions, proxy.Prediction{
				ID:            row.ID,
				Probabilities: map[string]float64{"WHITE": 0.7, "BLACK": 0.3, string(req.Mode): 0},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func rows(n int) []proxy.Features {
	out := make([]proxy.Features, n)
	for i := range out {
		out[i] = proxy.Features{ID: string(rune('a' + i)), LastName: "LEE", Attributes: map[string]float64{"B01": 1}}
	}
	return out
}

func TestPredict_Batches(t *testing.T) {
	var hits int32
	var sizes []int
	srv := echoServer(t, &hits, &sizes)
	defer srv.Close()

	c := New(srv.URL, WithBatchSize(2), WithRateLimit(0), WithRetry(fastRetry(1)))
	in := rows(5)

	got, err := c.Predict(context.Background(), proxy.ModeGeoOnly, in)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := range in {
		assert.Equal(t, in[i].ID, got[i].ID)
		assert.InDelta(t, 0.7, got[i].Probabilities["WHITE"], 1e-9)
		assert.Contains(t, got[i].Probabilities, "geo_only", "mode sent to server")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestPredict_Empty(t *testing.T) {
	var hits int32
	srv := echoServer(t, &hits, nil)
	defer srv.Close()

	got, err := New(srv.URL).Predict(context.Background(), proxy.ModeFull, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestPredict_RetriesTransient(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`loading model`))
			return
		}
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := Response{}
		for _, row := range req.Rows {
			resp.Predictions = append(resp.Predictions, proxy.Prediction{ID: row.ID, Probabilities: map[string]float64{"AAPI": 1}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	got, err := New(srv.URL, WithRateLimit(0), WithRetry(fastRetry(3))).Predict(context.Background(), proxy.ModeFull, rows(1))
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.InDelta(t, 1, got[0].Probabilities["AAPI"], 1e-9)
}

func TestPredict_PermanentError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`missing column B01`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithRateLimit(0), WithRetry(fastRetry(3))).Predict(context.Background(), proxy.ModeFull, rows(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestPredict_Mismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Response{Predictions: []proxy.Prediction{{ID: "zzz"}, {ID: "b"}}})
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithRateLimit(0)).Predict(context.Background(), proxy.ModeFull, rows(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, proxy.ErrPredictionMismatch))

	_, err = New(srv.URL, WithRateLimit(0)).Predict(context.Background(), proxy.ModeFull, rows(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, proxy.ErrPredictionMismatch))
}

func TestPredict_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithRateLimit(0), WithRetry(fastRetry(1))).Predict(context.Background(), proxy.ModeFull, rows(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestPredict_Cancelled(t *testing.T) {
	var hits int32
	srv := echoServer(t, &hits, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, WithRateLimit(1)).Predict(ctx, proxy.ModeFull, rows(1))
	require.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c := New("http://models/bg", WithName("block_group"), WithBatchSize(0))
	assert.Equal(t, 500, c.batchSize)
	assert.Equal(t, "block_group", c.name)
	assert.NotNil(t, c.retry.OnRetry)
}
