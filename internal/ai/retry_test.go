package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedClient struct {
	results []error
	reply   string
	calls   int
}

func (s *scriptedClient) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.calls <= len(s.results) && s.results[s.calls-1] != nil {
		return "", s.results[s.calls-1]
	}
	return s.reply, nil
}

func newFakeSleeper() (func(ctx context.Context, d time.Duration) error, *[]time.Duration) {
	var slept []time.Duration
	return func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}, &slept
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	base := &scriptedClient{
		results: []error{
			&ProviderError{StatusCode: 503, Message: "model overloaded"},
			&ProviderError{StatusCode: 503, Message: "model overloaded"},
			nil,
		},
		reply: "the explanation",
	}
	client := NewRetryingClient(base, 3, 2000*time.Millisecond)
	sleep, slept := newFakeSleeper()
	client.sleep = sleep

	out, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "the explanation" {
		t.Fatalf("unexpected reply: %q", out)
	}
	if base.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", base.calls)
	}
	want := []time.Duration{2000 * time.Millisecond, 4000 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("sleep %d: expected %v, got %v", i, d, (*slept)[i])
		}
	}
}

func TestRetryStopsAtMaxAttempts(t *testing.T) {
	provErr := &ProviderError{StatusCode: 503, Message: "model overloaded"}
	base := &scriptedClient{results: []error{provErr, provErr, provErr}}
	client := NewRetryingClient(base, 3, time.Millisecond)
	sleep, slept := newFakeSleeper()
	client.sleep = sleep

	_, err := client.Generate(context.Background(), "prompt")
	var got *ProviderError
	if !errors.As(err, &got) || got.StatusCode != 503 {
		t.Fatalf("expected 503 provider error, got %v", err)
	}
	if base.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", base.calls)
	}
	if len(*slept) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(*slept))
	}
}

func TestRetrySkipsNonRetryableErrors(t *testing.T) {
	base := &scriptedClient{results: []error{errors.New("invalid api key")}}
	client := NewRetryingClient(base, 3, time.Millisecond)
	sleep, slept := newFakeSleeper()
	client.sleep = sleep

	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected error")
	}
	if base.calls != 1 {
		t.Fatalf("expected single attempt, got %d", base.calls)
	}
	if len(*slept) != 0 {
		t.Fatalf("expected no backoff, got %v", *slept)
	}
}

func TestRetryRetriesOnRateLimitMessage(t *testing.T) {
	base := &scriptedClient{
		results: []error{errors.New("rate limit exceeded"), nil},
		reply:   "done",
	}
	client := NewRetryingClient(base, 3, time.Millisecond)
	sleep, _ := newFakeSleeper()
	client.sleep = sleep

	out, err := client.Generate(context.Background(), "prompt")
	if err != nil || out != "done" {
		t.Fatalf("expected success after retry, got %q %v", out, err)
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", base.calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	provErr := &ProviderError{StatusCode: 503, Message: "model overloaded"}
	base := &scriptedClient{results: []error{provErr, provErr, provErr}}
	client := NewRetryingClient(base, 3, time.Millisecond)
	client.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("expected cancellation after first attempt, got %d calls", base.calls)
	}
}

func TestRetryZeroConfigUsesDefaults(t *testing.T) {
	base := &scriptedClient{reply: "ok"}
	client := NewRetryingClient(base, 0, 0)

	out, err := client.Generate(context.Background(), "prompt")
	if err != nil || out != "ok" {
		t.Fatalf("expected success, got %q %v", out, err)
	}
}
