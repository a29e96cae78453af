package kiosk

import (
	"ProjectPalm/internal/api/fortune"
	"ProjectPalm/internal/api/usage"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// ErrServiceOverloaded means the backend reported MODEL_OVERLOADED: every
// model candidate was saturated. The kiosk shows a try-again-later screen
// instead of a failure screen.
var ErrServiceOverloaded = errors.New("fortune service overloaded")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type IFortuneClient interface {
	TellFortune(ctx context.Context, image []byte, mimeType, masterType, language string) (string, error)
	IncrementUsage(ctx context.Context) (int64, error)
}

type fortuneClient struct {
	log     *logrus.Logger
	baseURL string
	http    *http.Client
}

func NewFortuneClient(log *logrus.Logger, baseURL string) IFortuneClient {
	return &fortuneClient{
		log:     log,
		baseURL: baseURL,
		http: &http.Client{
			// Must outlast the server's own 60s generation budget.
			Timeout: 90 * time.Second,
		},
	}
}

func (c *fortuneClient) TellFortune(ctx context.Context, image []byte, mimeType, masterType, language string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="palmImage"; filename="palm.png"`)
	partHeader.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}

	if masterType != "" {
		if err := writer.WriteField("masterType", masterType); err != nil {
			return "", err
		}
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/fortune-telling", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed fortune.FortuneResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("unexpected fortune response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable || parsed.Error == "MODEL_OVERLOADED" {
		return "", fmt.Errorf("%w: %s", ErrServiceOverloaded, parsed.Message)
	}

	if !parsed.Success || parsed.Fortune == nil {
		msg := parsed.Error
		if parsed.Message != "" {
			msg = fmt.Sprintf("%s: %s", parsed.Error, parsed.Message)
		}
		return "", fmt.Errorf("fortune request failed (status %d): %s", resp.StatusCode, msg)
	}

	return parsed.Fortune.Fortune, nil
}

func (c *fortuneClient) IncrementUsage(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/usage/increment", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var parsed usage.CountResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("unexpected usage response (status %d): %w", resp.StatusCode, err)
	}

	if !parsed.Success {
		return 0, fmt.Errorf("usage increment failed (status %d)", resp.StatusCode)
	}

	return parsed.Count, nil
}
