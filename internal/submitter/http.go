package submitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-advisory-contact/internal/domain"
)

// HTTP posts submissions to the contact API.
type HTTP struct {
	endpoint string
	client   *http.Client
}

// NewHTTP creates a submitter for endpoint, e.g. https://api.example.com/v1/contact.
func NewHTTP(endpoint string, timeout time.Duration) *HTTP {
	return &HTTP{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// envelope mirrors the API response format
type envelope struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Data    domain.ContactSubmission `json:"data"`
}

func (h *HTTP) Submit(ctx context.Context, submission domain.ContactSubmission) (domain.ContactSubmission, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return domain.ContactSubmission{}, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ContactSubmission{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return domain.ContactSubmission{}, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ContactSubmission{}, fmt.Errorf("%w: read response: %v", domain.ErrSubmissionFailed, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return domain.ContactSubmission{}, fmt.Errorf("%w: status %d: %s", domain.ErrSubmissionFailed, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return domain.ContactSubmission{}, fmt.Errorf("%w: decode response: %v", domain.ErrSubmissionFailed, decodeErr)
	}
	return env.Data, nil
}
