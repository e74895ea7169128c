package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrAgentUnreachable indicates the remote agent did not answer at the
// transport level (connection refused, DNS failure, timeout).
var ErrAgentUnreachable = errors.New("agent unreachable")

// WellKnownPath is the agent-card discovery endpoint.
const WellKnownPath = "/.well-known/agent.json"

// Client dispatches payloads to one remote agent. The underlying
// transport injects W3C trace context on every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the agent at baseURL with a per-call
// timeout. The timeout must cover the slowest stage, which includes an
// external reasoning call.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// BaseURL returns the agent's base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchCard retrieves the agent's self-description.
func (c *Client) FetchCard(ctx context.Context) (AgentCard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+WellKnownPath, nil)
	if err != nil {
		return AgentCard{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AgentCard{}, fmt.Errorf("%w: %v", ErrAgentUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return AgentCard{}, fmt.Errorf("agent card fetch: HTTP %d", resp.StatusCode)
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return AgentCard{}, fmt.Errorf("decode agent card: %w", err)
	}
	return card, nil
}

// SendText submits a UTF-8 text payload via message/send and returns the
// textual result, regardless of whether the agent answered with a direct
// message or a task wrapper.
func (c *Client) SendText(ctx context.Context, payload string) (string, error) {
	rpcReq := rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  "message/send",
		Params: rpcParams{
			Message: Message{
				Role:      "user",
				MessageID: uuid.NewString(),
				Parts:     []Part{{Kind: "text", Text: payload}},
			},
		},
	}

	body, err := json.Marshal(rpcReq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAgentUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent error: HTTP %d: %s", resp.StatusCode, data)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("agent error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result == nil {
		return "", errors.New("agent returned no result")
	}

	text, ok := rpcResp.Result.Text()
	if !ok {
		return "", errors.New("agent returned no text payload")
	}
	return text, nil
}
