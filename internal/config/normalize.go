// internal/config/normalize.go
package config

// DefaultTimeoutMs is applied to lines that leave timeout_ms unset.
const DefaultTimeoutMs = 2000

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Poller.ConfigDir == "" {
		cfg.Poller.ConfigDir = "."
	}

	for li := range cfg.Poller.Lines {
		l := &cfg.Poller.Lines[li]

		if l.TimeoutMs == 0 {
			l.TimeoutMs = DefaultTimeoutMs
		}

		// Publishing is opt-in
		if l.Publish == nil {
			continue
		}

		if l.Publish.Transport == "" {
			l.Publish.Transport = TransportModbus
		}
	}
}
