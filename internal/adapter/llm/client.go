// Package llm provides the reasoning oracle used by risk assessment. It
// talks to an OpenAI-compatible chat completions endpoint and parses the
// model's JSON verdict out of whatever prose surrounds it.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Strob0t/LoanPilot/internal/domain/loan"
	"github.com/Strob0t/LoanPilot/internal/port/oracle"
	"github.com/Strob0t/LoanPilot/internal/resilience"
)

const (
	temperature = 0.3
	maxTokens   = 250
)

// Client calls a chat completions API and maps the answer to a Judgment.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewClient creates an oracle client. baseURL is the API root without a
// trailing slash, e.g. https://api.openai.com/v1.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Breaker returns the attached breaker, or nil.
func (c *Client) Breaker() *resilience.Breaker { return c.breaker }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Assess asks the model for a judgment score on the applicant. Any
// transport, API, or parse failure is returned to the caller, which is
// expected to fall back to a neutral score.
func (c *Client) Assess(ctx context.Context, app loan.Normalized, ruleScore int) (oracle.Judgment, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(app, ruleScore)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return oracle.Judgment{}, fmt.Errorf("marshal chat request: %w", err)
	}

	raw, err := c.doRequest(ctx, body)
	if err != nil {
		return oracle.Judgment{}, err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return oracle.Judgment{}, fmt.Errorf("unmarshal chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return oracle.Judgment{}, errors.New("chat response has no choices")
	}

	verdict, err := ExtractJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return oracle.Judgment{}, fmt.Errorf("extract verdict: %w", err)
	}

	var j oracle.Judgment
	if err := json.Unmarshal(verdict, &j); err != nil {
		return oracle.Judgment{}, fmt.Errorf("unmarshal verdict: %w", err)
	}
	if j.Score < 0 || j.Score > 100 {
		return oracle.Judgment{}, fmt.Errorf("verdict score %d out of range", j.Score)
	}
	return j, nil
}

func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	var result []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("oracle API error %d: %s", resp.StatusCode, string(data))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}

const systemPrompt = `You are a mortgage risk analyst. Score loan applications on a 0-100 risk scale where 0 is riskless and 100 is certain default. Respond with a single JSON object: {"llm_score": <int 0-100>, "reasoning": "<one or two sentences>", "risk_factors": ["..."], "compensating_factors": ["..."]}. No other text.`

func buildPrompt(app loan.Normalized, ruleScore int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applicant %s (%s) applying for a %s loan.\n", app.ApplicantID, app.FullName, app.LoanType)
	fmt.Fprintf(&b, "Credit score: %d\n", app.CreditScore)
	fmt.Fprintf(&b, "Annual income: $%.2f\n", app.AnnualIncomeUSD)
	fmt.Fprintf(&b, "Monthly debt payments: $%.2f\n", app.MonthlyDebtPaymentsUSD)
	fmt.Fprintf(&b, "Loan amount: $%.2f against property value $%.2f\n", app.LoanAmount, app.PropertyValue)
	fmt.Fprintf(&b, "DTI ratio: %.4f, LTV ratio: %.4f\n", app.DTIRatio, app.LTVRatio)
	fmt.Fprintf(&b, "Employment: %d months\n", app.EmploymentMonths)
	fmt.Fprintf(&b, "Derogatory marks: %d", app.DerogatoryMarks)
	if app.DerogatoryMarkNotes != "" {
		fmt.Fprintf(&b, " (%s)", app.DerogatoryMarkNotes)
	}
	b.WriteString("\n")
	if app.FirstTimeHomebuyer {
		b.WriteString("First-time homebuyer.\n")
	}
	fmt.Fprintf(&b, "Deterministic rule score: %d/100\n", ruleScore)
	b.WriteString("Return your JSON verdict now.")
	return b.String()
}

// ExtractJSON pulls the first JSON object out of model output. It
// strips markdown code fences and falls back to scanning for the first
// balanced brace pair, since models wrap verdicts in prose despite
// instructions.
func ExtractJSON(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, errors.New("no JSON object in output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					candidate := s[start : i+1]
					if !json.Valid([]byte(candidate)) {
						return nil, errors.New("unparseable JSON object in output")
					}
					return []byte(candidate), nil
				}
			}
		}
	}
	return nil, errors.New("unterminated JSON object in output")
}
