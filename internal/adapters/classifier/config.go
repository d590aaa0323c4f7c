package classifier

import (
	"notary/internal/platform/config"
)

// OptionsFromConfig reads CLASSIFIER_* values under cfg's prefix and loads the
// optional prompts file
func OptionsFromConfig(cfg config.Conf) (Options, error) {
	cc := cfg.Prefix("CLASSIFIER_")
	prompts, err := LoadPrompts(cc.MayString("PROMPTS", ""))
	if err != nil {
		return Options{}, err
	}
	return Options{
		Backend: cc.MayEnum("BACKEND", BackendASI, BackendASI, BackendGemini),
		BaseURL: cc.MayURL("BASE_URL", ""),
		APIKey:  cc.MayString("API_KEY", ""),
		Model:   cc.MayString("MODEL", ""),
		Timeout: cc.MayDuration("TIMEOUT", asiTimeout),
		Prompts: prompts,
	}, nil
}
