package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// ErrOverloaded marks a generation that failed because every candidate model
// exhausted its retryable attempts. Callers map it to a distinct user-facing
// status instead of a generic failure.
var ErrOverloaded = errors.New("all models overloaded")

const (
	maxRetries       = 3
	baseRetryDelay   = 500 * time.Millisecond
	defaultCandidate = "gemini-2.0-flash"
)

// defaultModelCandidates is ordered cheapest/highest-quota first. Models are
// tried in turn; retryable failures back off and retry on the same model,
// anything else moves straight to the next candidate.
var defaultModelCandidates = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-001",
	"gemini-2.0-flash-lite-preview",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-flash-latest",
	"gemini-1.5-flash",
	"gemini-1.5-flash-latest",
	"gemini-2.5-pro",
	"gemini-pro-latest",
	"gemini-1.5-pro",
	"gemini-2.0-flash-exp",
	"gemma-3-27b-it",
	"gemma-3-12b-it",
	"gemma-3-4b-it",
}

// retryableRe classifies transient upstream capacity failures: HTTP 503/429
// status codes or quota wording in the error message.
var retryableRe = regexp.MustCompile(`(?i)\b(503|429|overloaded|exhausted)\b`)

type Result struct {
	Text  string
	Model string
}

type IGemini interface {
	GenerateFromImage(ctx context.Context, prompt string, mimeType string, imageData []byte) (*Result, error)
}

// callFunc issues one generation attempt against one model. Swapped out in
// tests so the retry and fallback policy runs against a scripted upstream.
type callFunc func(ctx context.Context, model, prompt, mimeType string, imageData []byte) (string, error)

type geminiClient struct {
	client     *genai.Client
	log        *logrus.Logger
	candidates []string
	call       callFunc
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewGeminiClient(log *logrus.Logger) (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	candidates := defaultModelCandidates
	if override := os.Getenv("GEMINI_MODEL_CANDIDATES"); override != "" {
		candidates = splitCandidates(override)
	}

	g := &geminiClient{
		client:     client,
		log:        log,
		candidates: candidates,
		sleep:      sleepCtx,
	}
	g.call = g.callModel

	return g, nil
}

// GenerateFromImage walks the candidate list. Per model it attempts the call
// up to maxRetries times with exponential backoff (base delay doubled per
// attempt), but only when the failure is classified retryable; anything else
// fails over to the next model immediately.
func (g *geminiClient) GenerateFromImage(ctx context.Context, prompt string, mimeType string, imageData []byte) (*Result, error) {
	var lastErr error

	for _, model := range g.candidates {
		for attempt := 0; attempt < maxRetries; attempt++ {
			text, err := g.call(ctx, model, prompt, mimeType, imageData)
			if err == nil {
				g.log.WithFields(logrus.Fields{
					"model":   model,
					"attempt": attempt + 1,
				}).Debug("Gemini generation succeeded")
				return &Result{Text: text, Model: model}, nil
			}

			lastErr = err
			if IsRetryable(err) && attempt < maxRetries-1 {
				delay := baseRetryDelay * time.Duration(1<<attempt)
				g.log.WithFields(logrus.Fields{
					"model":   model,
					"attempt": attempt + 1,
					"delay":   delay.String(),
					"error":   err.Error(),
				}).Warn("Gemini overloaded, backing off")
				if err := g.sleep(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no model candidates configured")
	}
	if IsRetryable(lastErr) {
		return nil, fmt.Errorf("%w: %v", ErrOverloaded, lastErr)
	}
	return nil, lastErr
}

func (g *geminiClient) callModel(ctx context.Context, model, prompt, mimeType string, imageData []byte) (string, error) {
	gm := g.client.GenerativeModel(model)

	img := genai.Blob{MIMEType: mimeType, Data: imageData}
	res, err := gm.GenerateContent(ctx, genai.Text(prompt), img)
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return string(text), nil
}

// IsRetryable reports whether an upstream failure is a transient capacity
// signal worth backing off for.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return retryableRe.MatchString(err.Error())
}

func splitCandidates(raw string) []string {
	var out []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		out = []string{defaultCandidate}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
