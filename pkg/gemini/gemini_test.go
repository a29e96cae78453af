package gemini

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type scriptedCall struct {
	// errs maps a model name to the sequence of errors its attempts return;
	// a nil entry means that attempt succeeds.
	errs  map[string][]error
	calls []string
}

func (s *scriptedCall) call(_ context.Context, model, _, _ string, _ []byte) (string, error) {
	s.calls = append(s.calls, model)

	seq := s.errs[model]
	attempt := 0
	for _, m := range s.calls[:len(s.calls)-1] {
		if m == model {
			attempt++
		}
	}
	if attempt < len(seq) && seq[attempt] != nil {
		return "", seq[attempt]
	}
	return "fortune text from " + model, nil
}

func newTestClient(script *scriptedCall, candidates []string) (*geminiClient, *[]time.Duration) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	var delays []time.Duration
	g := &geminiClient{
		log:        log,
		candidates: candidates,
		call:       script.call,
		sleep: func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
	}
	return g, &delays
}

func TestGenerateRetriesOverloadedModel(t *testing.T) {
	overloaded := errors.New("503 Service Unavailable: model is overloaded")
	script := &scriptedCall{errs: map[string][]error{
		"model-a": {overloaded, overloaded, nil},
	}}
	g, delays := newTestClient(script, []string{"model-a", "model-b"})

	res, err := g.GenerateFromImage(context.Background(), "prompt", "image/png", []byte{1})
	if err != nil {
		t.Fatalf("GenerateFromImage() error = %v", err)
	}
	if res.Model != "model-a" {
		t.Errorf("succeeded via %q, want model-a", res.Model)
	}
	if len(script.calls) != 3 {
		t.Errorf("call count = %d, want 3", len(script.calls))
	}

	// Exactly two backoff waits before the third attempt, doubling each time.
	want := []time.Duration{500 * time.Millisecond, 1000 * time.Millisecond}
	if len(*delays) != len(want) {
		t.Fatalf("backoff count = %d, want %d", len(*delays), len(want))
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("backoff[%d] = %v, want %v", i, (*delays)[i], d)
		}
	}
}

func TestGenerateFallsBackOnNonRetryableFailure(t *testing.T) {
	hardFail := errors.New("400 invalid argument")
	script := &scriptedCall{errs: map[string][]error{
		"model-a": {hardFail, hardFail, hardFail},
	}}
	g, delays := newTestClient(script, []string{"model-a", "model-b"})

	res, err := g.GenerateFromImage(context.Background(), "prompt", "image/png", []byte{1})
	if err != nil {
		t.Fatalf("GenerateFromImage() error = %v", err)
	}
	if res.Model != "model-b" {
		t.Errorf("succeeded via %q, want model-b", res.Model)
	}

	// Non-retryable: model-a is tried once, no backoff, then model-b.
	if len(script.calls) != 2 {
		t.Errorf("calls = %v, want [model-a model-b]", script.calls)
	}
	if len(*delays) != 0 {
		t.Errorf("backoff count = %d, want 0", len(*delays))
	}
}

func TestGenerateReturnsOverloadedWhenExhausted(t *testing.T) {
	overloaded := errors.New("resource exhausted")
	script := &scriptedCall{errs: map[string][]error{
		"model-a": {overloaded, overloaded, overloaded},
		"model-b": {overloaded, overloaded, overloaded},
	}}
	g, _ := newTestClient(script, []string{"model-a", "model-b"})

	_, err := g.GenerateFromImage(context.Background(), "prompt", "image/png", []byte{1})
	if !errors.Is(err, ErrOverloaded) {
		t.Fatalf("error = %v, want ErrOverloaded", err)
	}
	// Each model gets its full retry budget.
	if len(script.calls) != 6 {
		t.Errorf("call count = %d, want 6", len(script.calls))
	}
}

func TestGenerateGenericFailureIsNotOverloaded(t *testing.T) {
	hardFail := errors.New("permission denied")
	script := &scriptedCall{errs: map[string][]error{
		"model-a": {hardFail},
		"model-b": {hardFail},
	}}
	g, _ := newTestClient(script, []string{"model-a", "model-b"})

	_, err := g.GenerateFromImage(context.Background(), "prompt", "image/png", []byte{1})
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrOverloaded) {
		t.Fatal("non-retryable failure classified as overloaded")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 503", errors.New("googleapi: Error 503: The model is overloaded"), true},
		{"http 429", errors.New("googleapi: Error 429: rate limited"), true},
		{"overloaded wording", errors.New("model currently Overloaded, try later"), true},
		{"exhausted wording", errors.New("RESOURCE exhausted for quota"), true},
		{"bad request", errors.New("googleapi: Error 400: invalid image"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
