package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"linglong-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) Client {
	return NewClient(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "deepseek-chat",
	})
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"你好"}}]}`))
	}))
	defer srv.Close()

	content, err := newTestClient(srv.URL).Complete(context.Background(),
		[]Message{{Role: "user", Content: "hi"}}, DefaultMaxTokens, DefaultTimeout)
	require.NoError(t, err)
	assert.Equal(t, "你好", content)
}

func TestCompleteMissingKeyFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClient(config.LLMConfig{BaseURL: srv.URL, Model: "deepseek-chat"})
	_, err := client.Complete(context.Background(), nil, DefaultMaxTokens, DefaultTimeout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")
	assert.Equal(t, int32(0), calls.Load())
}

func TestCompleteNon2xxCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited upstream"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), nil, DefaultMaxTokens, DefaultTimeout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited upstream")
}

func TestCompleteUnexpectedShapeReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	content, err := newTestClient(srv.URL).Complete(context.Background(), nil, DefaultMaxTokens, DefaultTimeout)
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestCompleteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), nil, DefaultMaxTokens, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCompleteWithRetryRecoversOnSecondAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"重试成功"}}]}`))
	}))
	defer srv.Close()

	content, err := newTestClient(srv.URL).CompleteWithRetry(context.Background(), nil, DefaultMaxTokens, DefaultTimeout)
	require.NoError(t, err)
	assert.Equal(t, "重试成功", content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteWithRetryExhaustedSurfacesLastError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CompleteWithRetry(context.Background(), nil, DefaultMaxTokens, DefaultTimeout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Equal(t, int32(2), calls.Load())
}
