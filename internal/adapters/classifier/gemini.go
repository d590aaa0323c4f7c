package classifier

import (
	"context"
	"strings"

	perr "notary/internal/platform/errors"
	"notary/internal/platform/logger"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

// Gemini serves the same prompts through the Gemini API
type Gemini struct {
	models  *genai.Models
	model   string
	prompts Prompts
	log     logger.Logger
}

// NewGemini creates a Gemini backend, APIKey is required
func NewGemini(ctx context.Context, o Options) (*Gemini, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, perr.InvalidArgf("gemini api key is required")
	}
	if o.Model == "" {
		o.Model = geminiModel
	}
	if o.Prompts.ClassifySystem == "" {
		o.Prompts = DefaultPrompts()
	}

	cc := &genai.ClientConfig{APIKey: o.APIKey, Backend: genai.BackendGeminiAPI}
	if o.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: o.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "create gemini client")
	}
	return &Gemini{
		models:  client.Models,
		model:   o.Model,
		prompts: o.Prompts,
		log:     *logger.Named("classifier"),
	}, nil
}

// Classify asks the model for a label prefixed reply
func (g *Gemini) Classify(ctx context.Context, text string) (string, error) {
	return g.generate(ctx, "classify", g.prompts.ClassifySystemPrompt(), text, g.prompts.Sampling.Classify)
}

// Explain asks the model to summarize a verification report
func (g *Gemini) Explain(ctx context.Context, report string) (string, error) {
	return g.generate(ctx, "explain", g.prompts.AnalystSystem, g.prompts.ExplainUserPrompt(report), g.prompts.Sampling.Explain)
}

func (g *Gemini) generate(ctx context.Context, op, system, user string, s Sampling) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       s.Temperature,
		TopP:              s.TopP,
		FrequencyPenalty:  s.FrequencyPenalty,
		PresencePenalty:   s.PresencePenalty,
	}
	if s.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(s.MaxTokens)
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(user), cfg)
	if err != nil {
		if ctx.Err() != nil {
			return "", perr.FromContext(ctx.Err(), "gemini "+op)
		}
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "gemini %s failed", op)
	}
	out := resp.Text()
	g.log.Debug().Str("op", op).Str("model", g.model).Int("chars", len(out)).Msg("gemini response")
	if strings.TrimSpace(out) == "" {
		return "", perr.Upstreamf("gemini %s returned no text", op)
	}
	return out, nil
}
