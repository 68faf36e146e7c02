package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the identity a runtime reply is matched back by.
const RequestIDHeader = "X-Request-Id"

// ErrIdentityMismatch is returned when a runtime reply answers a different request.
var ErrIdentityMismatch = errors.New("runtime reply does not match request")

// RuntimeExecution is one program to run in the external runtime.
type RuntimeExecution struct {
	Code     string
	IsModule bool
}

// RuntimeClient sends generated programs to the external runtime process.
type RuntimeClient interface {
	// Execute runs the program and returns the runtime error text, empty on success.
	// The error is set when the runtime could not be reached or misbehaved.
	Execute(ctx context.Context, exec RuntimeExecution) (string, error)
}

// HTTPRuntimeClient posts programs to <addr>/run.
type HTTPRuntimeClient struct {
	addr   string
	client *http.Client
}

// NewHTTPRuntimeClient constructs a client for the runtime listening at addr.
func NewHTTPRuntimeClient(addr string, timeout time.Duration) *HTTPRuntimeClient {
	return &HTTPRuntimeClient{
		addr:   strings.TrimRight(addr, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Execute implements RuntimeClient.
func (c *HTTPRuntimeClient) Execute(ctx context.Context, exec RuntimeExecution) (string, error) {
	id := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/run", bytes.NewBufferString(exec.Code))
	if err != nil {
		return "", fmt.Errorf("build runtime request: %w", err)
	}

	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("Content-Type", "application/javascript")

	if exec.IsModule {
		req.Header.Set("X-Source-Type", "module")
	} else {
		req.Header.Set("X-Source-Type", "script")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("runtime request: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read runtime reply: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("runtime replied %s", resp.Status)
	}

	if got := resp.Header.Get(RequestIDHeader); got != id {
		return "", fmt.Errorf("%w: sent %s, got %q", ErrIdentityMismatch, id, got)
	}

	return strings.TrimSpace(string(body)), nil
}
