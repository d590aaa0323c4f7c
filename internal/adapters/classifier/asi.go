package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "notary/internal/platform/errors"
	"notary/internal/platform/logger"
)

const (
	asiBaseURL      = "https://api.asi1.ai/v1"
	asiModel        = "asi1-mini"
	asiTimeout      = 30 * time.Second
	completionsPath = "/chat/completions"
)

// ASI is an OpenAI compatible chat completions client
type ASI struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	prompts Prompts
	log     logger.Logger
	now     func() time.Time
}

// NewASI creates an ASI client with defaults for empty options
func NewASI(o Options) *ASI {
	if o.BaseURL == "" {
		o.BaseURL = asiBaseURL
	}
	if o.Model == "" {
		o.Model = asiModel
	}
	if o.Timeout <= 0 {
		o.Timeout = asiTimeout
	}
	if o.Prompts.ClassifySystem == "" {
		o.Prompts = DefaultPrompts()
	}
	return &ASI{
		http:    &http.Client{Timeout: o.Timeout},
		baseURL: strings.TrimRight(o.BaseURL, "/"),
		apiKey:  o.APIKey,
		model:   o.Model,
		prompts: o.Prompts,
		log:     *logger.Named("classifier"),
		now:     time.Now,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	Temperature      *float32      `json:"temperature,omitempty"`
	TopP             *float32      `json:"top_p,omitempty"`
	FrequencyPenalty *float32      `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float32      `json:"presence_penalty,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Classify asks the model for a label prefixed reply
func (c *ASI) Classify(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, "classify", c.prompts.Sampling.Classify, []chatMessage{
		{Role: "system", Content: c.prompts.ClassifySystemPrompt()},
		{Role: "user", Content: text},
	})
}

// Explain asks the model to summarize a verification report
func (c *ASI) Explain(ctx context.Context, report string) (string, error) {
	return c.complete(ctx, "explain", c.prompts.Sampling.Explain, []chatMessage{
		{Role: "system", Content: c.prompts.AnalystSystem},
		{Role: "user", Content: c.prompts.ExplainUserPrompt(report)},
	})
}

func (c *ASI) complete(ctx context.Context, op string, s Sampling, msgs []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:            c.model,
		Messages:         msgs,
		MaxTokens:        s.MaxTokens,
		Temperature:      s.Temperature,
		TopP:             s.TopP,
		FrequencyPenalty: s.FrequencyPenalty,
		PresencePenalty:  s.PresencePenalty,
	})
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "asi encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "asi new request failed")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		if ctx.Err() != nil {
			return "", perr.FromContext(ctx.Err(), "asi "+op)
		}
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "asi %s failed", op)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Str("model", c.model).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("asi http response")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "asi read %s", op)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tail := raw
		if len(tail) > 512 {
			tail = tail[:512]
		}
		return "", perr.Newf(perr.CodeForStatus(resp.StatusCode), "asi %s status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(tail)))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeJSON, "asi decode %s", op)
	}
	if len(out.Choices) == 0 {
		return "", perr.Upstreamf("asi %s returned no choices", op)
	}
	return out.Choices[0].Message.Content, nil
}
