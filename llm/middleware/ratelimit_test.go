package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harmonia-ai/harmonia/llm"
)

type fakeClient struct {
	calls int
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	f.calls++
	return llm.Response{Text: "echo: " + req.Prompt}, nil
}

func TestRateLimiterDelegates(t *testing.T) {
	t.Parallel()
	next := &fakeClient{}
	client := NewRateLimiter(600).Middleware()(next)

	resp, err := client.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
	require.Equal(t, "echo: hi", resp.Text)
	require.Equal(t, 1, next.calls)
}

func TestRateLimiterHonorsContextCancellation(t *testing.T) {
	t.Parallel()
	next := &fakeClient{}
	// One request per minute: the second call cannot proceed within the test.
	client := NewRateLimiter(1).Middleware()(next)

	_, err := client.Complete(context.Background(), llm.Request{Prompt: "first"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Complete(ctx, llm.Request{Prompt: "second"})
	require.Error(t, err)
	require.Equal(t, 1, next.calls, "rate limited call must not reach the client")
}

func TestRateLimiterDefaultsNonPositiveBudget(t *testing.T) {
	t.Parallel()
	next := &fakeClient{}
	client := NewRateLimiter(0).Middleware()(next)
	_, err := client.Complete(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
}

func TestMiddlewareNilClient(t *testing.T) {
	t.Parallel()
	require.Nil(t, NewRateLimiter(1).Middleware()(nil))
}
