package ledger

import "notary/internal/platform/config"

// OptionsFromConfig reads LEDGER_* values under cfg's prefix
func OptionsFromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("LEDGER_")
	return Options{
		BaseURL:    lc.MayURL("BASE_URL", "http://localhost:5005"),
		APIKey:     lc.MayString("API_KEY", ""),
		Timeout:    lc.MayDuration("TIMEOUT", defaultTimeout),
		MaxRetries: lc.MayInt("MAX_RETRIES", defaultMaxRetry),
		RetryBase:  lc.MayDuration("RETRY_BASE", defaultRetryBase),
	}
}
