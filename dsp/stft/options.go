package stft

import "log/slog"

// config holds Graph construction settings applied via Option.
type config struct {
	logger *slog.Logger
}

func defaultConfig() config {
	return config{logger: slog.New(slog.DiscardHandler)}
}

// Option mutates a Graph's construction config. Mirrors the functional
// options pattern used by dsp/core.ProcessorOption and dsp/window.Option.
type Option func(*config)

// WithLogger sets the logger used to report output underruns. The default
// is a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
