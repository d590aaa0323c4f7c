package classifier

import (
	_ "embed"
	"os"
	"strings"

	perr "notary/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// Sampling holds generation parameters for one call type
type Sampling struct {
	MaxTokens        int      `yaml:"max_tokens"`
	Temperature      *float32 `yaml:"temperature"`
	TopP             *float32 `yaml:"top_p"`
	FrequencyPenalty *float32 `yaml:"frequency_penalty"`
	PresencePenalty  *float32 `yaml:"presence_penalty"`
}

// Prompts is the prompt set used by every backend
type Prompts struct {
	Subject        string `yaml:"subject"`
	ClassifySystem string `yaml:"classify_system"`
	AnalystSystem  string `yaml:"analyst_system"`
	ExplainUser    string `yaml:"explain_user"`
	Docs           string `yaml:"docs"`

	Sampling struct {
		Classify Sampling `yaml:"classify"`
		Explain  Sampling `yaml:"explain"`
	} `yaml:"sampling"`
}

// DefaultPrompts returns the embedded prompt set
func DefaultPrompts() Prompts {
	var p Prompts
	if err := yaml.Unmarshal(defaultPrompts, &p); err != nil {
		panic("classifier: embedded prompts.yaml is invalid: " + err.Error())
	}
	return p
}

// LoadPrompts overlays the YAML file at path on the defaults; empty path
// returns the defaults
func LoadPrompts(path string) (Prompts, error) {
	p := DefaultPrompts()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read prompts %s", path)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Prompts{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse prompts %s", path)
	}
	return p, nil
}

// ClassifySystemPrompt renders the classifier system message
func (p Prompts) ClassifySystemPrompt() string {
	return strings.ReplaceAll(p.ClassifySystem, "{{subject}}", strings.TrimSpace(p.Subject))
}

// ExplainUserPrompt renders the explainer user message for a report
func (p Prompts) ExplainUserPrompt(report string) string {
	return strings.NewReplacer("{{docs}}", strings.TrimSpace(p.Docs), "{{report}}", report).Replace(p.ExplainUser)
}
