package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
)

const (
	chatCompletionsUrl = "https://api.openai.com/v1/chat/completions"
	requestTimeout     = 30 * time.Second

	roleSystem = "system"
	roleUser   = "user"
)

const systemPrompt = `You are an expense tracking assistant. The user will send casual, free-form messages about things they spent money on.
Your job is to understand their natural language using reasoning and output a pure JSON array called 'expenses'.

Each expense must have:
- merchant: short merchant or store name
- amount: number (no currency symbol)
- currency: 3-letter code if you can infer it, otherwise null
- category: short category label you infer (e.g. groceries, rent, travel)
- note: any extra descriptive text
- expense_date: ISO date (YYYY-MM-DD) if mentioned; if no date is clearly stated, use today's date based on the user's perspective.

Important:
- The user may mix chit-chat with spending details.
- There may be multiple expenses in one message.
- Ignore non-spending parts of the message.
- Be robust to typos, slang, and varied phrasing.
- Do NOT invent expenses that are not clearly implied.
- Output strictly valid JSON with the shape: {"expenses": [ ... ]} and nothing else.`

type config interface {
	ApiKey() string
	Model() string
}

// Client asks the chat-completions API to read a free-form message and
// return structured expense candidates. Every failure mode degrades to an
// empty, flagged extraction; the caller never sees an error.
type Client struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

func New(config config) *Client {
	return &Client{
		apiKey: config.ApiKey(),
		model:  config.Model(),
		url:    chatCompletionsUrl,
		client: &http.Client{Timeout: requestTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type expensesEnvelope struct {
	Expenses []expense.Candidate `json:"expenses"`
}

func (c *Client) Extract(ctx context.Context, message string) expense.Extraction {
	if c.apiKey == "" {
		// Dev mode without a key: do not guess, just answer with nothing.
		return expense.Extraction{Degraded: true}
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: roleSystem, Content: systemPrompt},
			{Role: roleUser, Content: message},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		logger.Warn("cannot marshal extraction request", zap.Error(err))
		return expense.Extraction{Degraded: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		logger.Warn("cannot build extraction request", zap.Error(err))
		return expense.Extraction{Degraded: true}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		logger.Warn("extraction call failed", zap.Error(err))
		return expense.Extraction{Degraded: true}
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		logger.Warn("extraction call rejected", zap.Int("status", res.StatusCode))
		return expense.Extraction{Degraded: true}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		logger.Warn("cannot read extraction response", zap.Error(err))
		return expense.Extraction{Degraded: true}
	}

	var resp chatResponse
	if err = json.Unmarshal(body, &resp); err != nil || len(resp.Choices) == 0 {
		logger.Warn("unexpected extraction response shape", zap.Error(err))
		return expense.Extraction{Degraded: true}
	}

	var envelope expensesEnvelope
	if err = json.Unmarshal([]byte(resp.Choices[0].Message.Content), &envelope); err != nil {
		logger.Warn("extraction content is not the expected JSON", zap.Error(err))
		return expense.Extraction{Degraded: true}
	}
	if envelope.Expenses == nil {
		logger.Warn("extraction content has no expenses list")
		return expense.Extraction{Degraded: true}
	}

	return expense.Extraction{Candidates: envelope.Expenses}
}
