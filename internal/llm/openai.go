package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/tokens"
	"github.com/nlxchange/intent-engine/pkg/types"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 20 * time.Second
)

// OpenAIConfig holds what the chat-completions call needs.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// OpenAIClient interprets instructions via the OpenAI chat-completions API
// with a structured-output schema mirroring the Draft shape.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenAIClient creates a client. The API key is required; everything else
// has defaults.
func NewOpenAIClient(cfg *OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key cannot be empty")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAIClient{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger,
	}, nil
}

// draftSchema is the structured-output contract. It mirrors the Draft shape
// one to one so the response can be unmarshalled directly.
const draftSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["mode", "sourceToken", "destToken", "amount", "reverse", "chain", "action", "triggerComparator", "triggerPrice"],
  "properties": {
    "mode": {"type": "string", "enum": ["swap", "conditional_order", "trending_query", "unknown"]},
    "sourceToken": {"type": "string"},
    "destToken": {"type": "string"},
    "amount": {"type": "string"},
    "reverse": {"type": "boolean"},
    "chain": {"type": "string"},
    "action": {"type": "string", "enum": ["buy", "sell", ""]},
    "triggerComparator": {"type": "string", "enum": [">=", "<=", ">", "<", "=", ""]},
    "triggerPrice": {"type": "string"}
  }
}`

const systemPrompt = `You classify crypto trading instructions into a JSON draft.
Modes: "swap" (exchange one token for another), "conditional_order" (buy/sell
when a price condition holds), "trending_query" (asking for trending tokens),
"unknown" (anything else).
Direction rule: when the amount is written next to the destination token
("swap ETH to 5 USDC") the user wants exactly that much output, so set
reverse=true; when it is next to the source token ("swap 5 ETH to USDC") set
reverse=false.
Use canonical uppercase token symbols (ETH, USDC, WBTC, UNI...). Put the
human chain name in "chain" ("ethereum", "base", "arbitrum", "polygon"), or
"" if the user did not name one. Amounts and prices are plain decimal
strings. Leave fields that do not apply as "" or false.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat json.RawMessage `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// interpreted is the wire shape of the model's answer.
type interpreted struct {
	Mode              string `json:"mode"`
	SourceToken       string `json:"sourceToken"`
	DestToken         string `json:"destToken"`
	Amount            string `json:"amount"`
	Reverse           bool   `json:"reverse"`
	Chain             string `json:"chain"`
	Action            string `json:"action"`
	TriggerComparator string `json:"triggerComparator"`
	TriggerPrice      string `json:"triggerPrice"`
}

// Interpret sends the instruction to the completion service. One attempt, no
// retries: a parse makes at most one external call to bound cost and
// latency.
func (c *OpenAIClient) Interpret(ctx context.Context, req Request) (*types.Draft, error) {
	start := time.Now()
	draft, err := c.interpret(ctx, req)
	InterpretDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		InterpretFailuresTotal.Inc()
		return nil, err
	}
	InterpretRequestsTotal.Inc()
	return draft, nil
}

func (c *OpenAIClient) interpret(ctx context.Context, req Request) (*types.Draft, error) {
	messages := []chatMessage{{Role: "system", Content: systemPrompt}}
	for _, m := range req.RecentHistory {
		role := m.Role
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Text})

	responseFormat := fmt.Sprintf(
		`{"type":"json_schema","json_schema":{"name":"trading_draft","strict":true,"schema":%s}}`,
		draftSchema,
	)
	payload, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: json.RawMessage(responseFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call completion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("completion service returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, errors.New("completion response has no choices")
	}

	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	var out interpreted
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("completion content is not the draft schema: %w", err)
	}

	draft := &types.Draft{
		Mode:              types.Mode(out.Mode),
		SourceToken:       tokens.NormalizeToken(out.SourceToken),
		DestToken:         tokens.NormalizeToken(out.DestToken),
		Amount:            strings.TrimSpace(out.Amount),
		Reverse:           out.Reverse,
		ChainID:           tokens.ResolveChain(out.Chain, req.DefaultChainID),
		Action:            out.Action,
		TriggerComparator: types.Comparator(out.TriggerComparator),
		TriggerPrice:      strings.TrimSpace(out.TriggerPrice),
	}

	c.logger.Debug("llm-interpretation",
		zap.String("mode", string(draft.Mode)),
		zap.String("source-token", draft.SourceToken),
		zap.String("dest-token", draft.DestToken))

	return draft, nil
}
